package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	assocModel "iltizem_backend/internals/features/associations/associations/model"
	cotisationModel "iltizem_backend/internals/features/cotisations/cotisations/model"
	"iltizem_backend/internals/features/paiements/model"
)

var (
	ErrCotisationIntrouvable = errors.New("cotisation non trouvée")
	ErrCotisationTerminale   = errors.New("cotisation déjà payée ou annulée")
	ErrMontantInvalide       = errors.New("le montant doit être strictement positif")
	ErrDateFuture            = errors.New("la date du paiement ne peut pas être dans le futur")
)

// SaisiePaiement porte les données d'un règlement à enregistrer.
type SaisiePaiement struct {
	CotisationID  uuid.UUID
	Methode       string
	Montant       decimal.Decimal
	Reference     *string
	Note          *string
	EnregistrePar *uuid.UUID
	Date          time.Time
}

// ResultatPaiement renvoie le paiement créé avec le montant attendu de la
// cotisation, pour exposer l'écart éventuel (trop-perçu ou solde restant).
type ResultatPaiement struct {
	Paiement          model.PaiementModel
	MontantCotisation decimal.Decimal
}

// Complet indique si le règlement couvre au moins le montant de la cotisation.
func (r *ResultatPaiement) Complet() bool {
	return r.Paiement.PaiementMontant.GreaterThanOrEqual(r.MontantCotisation)
}

// Difference = montant payé - montant attendu (négatif pour un solde restant).
func (r *ResultatPaiement) Difference() decimal.Decimal {
	return r.Paiement.PaiementMontant.Sub(r.MontantCotisation)
}

// EnregistrerPaiement règle une cotisation: vérifie le statut, réserve le
// numéro de reçu et bascule la cotisation en payee, le tout dans une seule
// transaction. Le montant est enregistré tel quel dès lors qu'il est positif:
// un trop-perçu ou un règlement partiel reste visible via l'écart du résultat.
// Un second règlement de la même cotisation échoue sur la contrainte unique
// de paiement_cotisation_id.
func EnregistrerPaiement(db *gorm.DB, associationID uuid.UUID, saisie SaisiePaiement) (*ResultatPaiement, error) {
	if saisie.Date.IsZero() {
		saisie.Date = time.Now()
	}
	if saisie.Date.After(time.Now()) {
		return nil, ErrDateFuture
	}
	if !saisie.Montant.IsPositive() {
		return nil, ErrMontantInvalide
	}

	var resultat ResultatPaiement
	txErr := db.Transaction(func(tx *gorm.DB) error {
		var cot cotisationModel.CotisationModel
		if err := tx.First(&cot,
			"cotisation_id = ? AND cotisation_association_id = ?",
			saisie.CotisationID, associationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCotisationIntrouvable
			}
			return err
		}
		if cotisationModel.EstTerminal(cot.CotisationStatut) {
			return ErrCotisationTerminale
		}

		var assoc assocModel.AssociationModel
		if err := tx.Select("association_id", "association_nom").
			First(&assoc, "association_id = ?", associationID).Error; err != nil {
			return err
		}

		annee := saisie.Date.Year()
		seq, err := ProchainNumeroRecu(tx, associationID, annee)
		if err != nil {
			return err
		}

		resultat.MontantCotisation = cot.CotisationMontant
		resultat.Paiement = model.PaiementModel{
			PaiementAssociationID: associationID,
			PaiementCotisationID:  cot.CotisationID,
			PaiementMontant:       saisie.Montant,
			PaiementMethode:       saisie.Methode,
			PaiementNumeroRecu:    FormatNumeroRecu(PrefixeRecu(assoc.AssociationNom), annee, seq),
			PaiementReference:     saisie.Reference,
			PaiementNote:          saisie.Note,
			PaiementEnregistrePar: saisie.EnregistrePar,
			PaiementDate:          saisie.Date,
		}
		if err := tx.Create(&resultat.Paiement).Error; err != nil {
			return err
		}

		return tx.Model(&cotisationModel.CotisationModel{}).
			Where("cotisation_id = ?", cot.CotisationID).
			Update("cotisation_statut", cotisationModel.StatutPayee).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &resultat, nil
}
