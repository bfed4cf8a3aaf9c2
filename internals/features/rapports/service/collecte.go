package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"iltizem_backend/internals/features/rapports/model"
)

// LigneMethode: total encaissé par méthode de paiement.
type LigneMethode struct {
	Methode string          `json:"methode"`
	Nombre  int64           `json:"nombre"`
	Montant decimal.Decimal `json:"montant"`
}

// LigneImpaye: détail d'une cotisation restée impayée sur la période.
type LigneImpaye struct {
	Logement string          `json:"logement"`
	Resident string          `json:"resident"`
	Periode  string          `json:"periode"`
	Montant  decimal.Decimal `json:"montant"`
	Statut   string          `json:"statut"`
}

// DonneesRapport: agrégats d'une période pour une association.
type DonneesRapport struct {
	Association string `json:"association"`
	Type        string `json:"type"`
	Periode     string `json:"periode"`

	NbCotisations int64 `json:"nb_cotisations"`
	NbPayees      int64 `json:"nb_payees"`
	NbImpayees    int64 `json:"nb_impayees"`
	NbAnnulees    int64 `json:"nb_annulees"`

	MontantAttendu  decimal.Decimal `json:"montant_attendu"`
	MontantCollecte decimal.Decimal `json:"montant_collecte"`

	// en pourcentage, 2 décimales
	TauxRecouvrement decimal.Decimal `json:"taux_recouvrement"`

	ParMethode []LigneMethode `json:"par_methode"`
	Impayes    []LigneImpaye  `json:"impayes"`
}

// CollecterDonnees agrège les cotisations et paiements d'une période.
// Pour un rapport annuel (periode YYYY), toutes les périodes de l'année
// sont incluses via un préfixe.
func CollecterDonnees(db *gorm.DB, associationID uuid.UUID, typeRapport, periode string) (*DonneesRapport, error) {
	d := &DonneesRapport{Type: typeRapport, Periode: periode}

	if err := db.Table("associations").
		Select("association_nom").
		Where("association_id = ?", associationID).
		Scan(&d.Association).Error; err != nil {
		return nil, err
	}
	if d.Association == "" {
		return nil, fmt.Errorf("association %s inconnue", associationID)
	}

	base := db.Table("cotisations").
		Where("cotisation_association_id = ?", associationID)
	if typeRapport == model.RapportAnnuel {
		base = base.Where("cotisation_periode LIKE ?", periode+"%")
	} else {
		base = base.Where("cotisation_periode = ?", periode)
	}

	var comptes []struct {
		Statut  string
		Nombre  int64
		Montant decimal.Decimal
	}
	if err := base.Session(&gorm.Session{}).
		Select("cotisation_statut AS statut, COUNT(*) AS nombre, COALESCE(SUM(cotisation_montant), 0) AS montant").
		Group("cotisation_statut").
		Scan(&comptes).Error; err != nil {
		return nil, err
	}

	for _, ligne := range comptes {
		switch ligne.Statut {
		case "payee":
			d.NbPayees = ligne.Nombre
			d.MontantCollecte = d.MontantCollecte.Add(ligne.Montant)
			d.MontantAttendu = d.MontantAttendu.Add(ligne.Montant)
		case "annulee":
			d.NbAnnulees = ligne.Nombre
			// les annulées ne comptent ni dans l'attendu ni dans le collecté
			continue
		default: // due, retard
			d.NbImpayees += ligne.Nombre
			d.MontantAttendu = d.MontantAttendu.Add(ligne.Montant)
		}
		d.NbCotisations += ligne.Nombre
	}
	d.NbCotisations += d.NbAnnulees

	if d.MontantAttendu.IsPositive() {
		d.TauxRecouvrement = d.MontantCollecte.
			Div(d.MontantAttendu).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	// répartition des encaissements par méthode
	methodes := db.Table("paiements").
		Joins("JOIN cotisations ON cotisations.cotisation_id = paiements.paiement_cotisation_id").
		Where("paiements.paiement_association_id = ?", associationID)
	if typeRapport == model.RapportAnnuel {
		methodes = methodes.Where("cotisations.cotisation_periode LIKE ?", periode+"%")
	} else {
		methodes = methodes.Where("cotisations.cotisation_periode = ?", periode)
	}
	if err := methodes.
		Select("paiement_methode AS methode, COUNT(*) AS nombre, COALESCE(SUM(paiement_montant), 0) AS montant").
		Group("paiement_methode").
		Order("paiement_methode ASC").
		Scan(&d.ParMethode).Error; err != nil {
		return nil, err
	}

	// liste nominative des impayés
	impayes := db.Table("cotisations").
		Select(`logements.logement_numero AS logement,
			COALESCE(users.user_name, '') AS resident,
			cotisations.cotisation_periode AS periode,
			cotisations.cotisation_montant AS montant,
			cotisations.cotisation_statut AS statut`).
		Joins("JOIN logements ON logements.logement_id = cotisations.cotisation_logement_id").
		Joins("LEFT JOIN users ON users.id = logements.logement_resident_id").
		Where("cotisations.cotisation_association_id = ?", associationID).
		Where("cotisations.cotisation_statut IN ?", []string{"due", "retard"})
	if typeRapport == model.RapportAnnuel {
		impayes = impayes.Where("cotisations.cotisation_periode LIKE ?", periode+"%")
	} else {
		impayes = impayes.Where("cotisations.cotisation_periode = ?", periode)
	}
	if err := impayes.Order("logements.logement_numero ASC").
		Scan(&d.Impayes).Error; err != nil {
		return nil, err
	}

	return d, nil
}
