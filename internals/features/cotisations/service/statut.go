package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/features/cotisations/cotisations/model"
)

// EvaluerStatut renvoie le statut effectif d'une cotisation à la date asOf.
// Les statuts terminaux (payee, annulee) ne bougent jamais; une cotisation
// due dont l'échéance est dépassée devient retard.
func EvaluerStatut(statut string, echeance time.Time, asOf time.Time) string {
	if model.EstTerminal(statut) {
		return statut
	}
	if asOf.After(echeance) {
		return model.StatutRetard
	}
	return model.StatutDue
}

// SweepRetards bascule en retard toutes les cotisations dues dont l'échéance
// est dépassée. Idempotent, exécuté chaque nuit et rattrapable à la main.
func SweepRetards(db *gorm.DB, asOf time.Time) (int64, error) {
	res := db.Model(&model.CotisationModel{}).
		Where("cotisation_statut = ? AND cotisation_date_echeance < ?", model.StatutDue, asOf).
		Update("cotisation_statut", model.StatutRetard)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[COTISATIONS] %d cotisations passées en retard", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// SweepRetardsAssociation: même bascule, limitée à une association.
func SweepRetardsAssociation(db *gorm.DB, associationID uuid.UUID, asOf time.Time) (int64, error) {
	res := db.Model(&model.CotisationModel{}).
		Where("cotisation_association_id = ? AND cotisation_statut = ? AND cotisation_date_echeance < ?",
			associationID, model.StatutDue, asOf).
		Update("cotisation_statut", model.StatutRetard)
	return res.RowsAffected, res.Error
}
