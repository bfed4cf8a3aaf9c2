package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"iltizem_backend/internals/features/paiements/model"
)

// PrefixeRecu dérive le préfixe du numéro de reçu des 3 premières lettres du
// nom de l'association, en majuscules, espaces et caractères hors A-Z ignorés
// (les lettres accentuées sont sautées). "REC" à défaut.
func PrefixeRecu(nomAssociation string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(nomAssociation) {
		if r < 'A' || r > 'Z' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 3 {
			break
		}
	}
	if b.Len() == 0 {
		return "REC"
	}
	return b.String()
}

// ProchainNumeroRecu réserve le prochain numéro de séquence pour
// (association, année). L'upsert incrémental verrouille la ligne compteur,
// ce qui sérialise les paiements concurrents d'une même association.
// À appeler dans la transaction du paiement.
func ProchainNumeroRecu(tx *gorm.DB, associationID uuid.UUID, annee int) (int, error) {
	compteur := model.RecuCompteur{
		RecuCompteurAssociationID: associationID,
		RecuCompteurAnnee:         annee,
		RecuCompteurDernierNumero: 1,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "recu_compteur_association_id"},
			{Name: "recu_compteur_annee"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"recu_compteur_dernier_numero": gorm.Expr("recu_compteur_dernier_numero + 1"),
		}),
	}).Create(&compteur).Error; err != nil {
		return 0, err
	}

	// relecture dans la même transaction: la ligne est verrouillée par l'upsert
	var lu model.RecuCompteur
	if err := tx.First(&lu,
		"recu_compteur_association_id = ? AND recu_compteur_annee = ?",
		associationID, annee).Error; err != nil {
		return 0, err
	}
	return lu.RecuCompteurDernierNumero, nil
}

// FormatNumeroRecu produit PREFIX-ANNEE-SEQ, ex: RES-2025-0042.
func FormatNumeroRecu(prefixe string, annee, seq int) string {
	return fmt.Sprintf("%s-%04d-%04d", prefixe, annee, seq)
}
