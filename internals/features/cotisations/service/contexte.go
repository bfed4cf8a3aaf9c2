package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContexteNotification porte les données injectées dans les gabarits de
// rappel (email / SMS) pour une cotisation impayée.
type ContexteNotification struct {
	CotisationID   uuid.UUID       `json:"cotisation_id"`
	AssociationID  uuid.UUID       `json:"association_id"`
	Association    string          `json:"association"`
	Logement       string          `json:"logement"`
	TypeCotisation string          `json:"type_cotisation"`
	Periode        string          `json:"periode"`
	Montant        decimal.Decimal `json:"montant"`
	Echeance       time.Time       `json:"echeance"`
	Statut         string          `json:"statut"`

	ResidentID        *uuid.UUID `json:"resident_id,omitempty"`
	ResidentNom       string     `json:"resident_nom"`
	ResidentEmail     string     `json:"resident_email"`
	ResidentTelephone *string    `json:"resident_telephone,omitempty"`
}

// ChargerContextesImpayes remonte, pour une date de référence, les cotisations
// due/retard dont l'échéance est dépassée depuis au moins graceJours jours,
// avec tout le contexte nécessaire au rendu des rappels. Les logements sans
// résident rattaché sont exclus. associationID limite à une association si
// non nil.
func ChargerContextesImpayes(db *gorm.DB, asOf time.Time, graceJours int, associationID *uuid.UUID) ([]ContexteNotification, error) {
	limite := asOf.AddDate(0, 0, -graceJours)

	var rows []ContexteNotification
	tx := db.Table("cotisations").
		Select(`cotisations.cotisation_id,
			cotisations.cotisation_association_id AS association_id,
			associations.association_nom AS association,
			logements.logement_numero AS logement,
			types_cotisations.type_cotisation_nom AS type_cotisation,
			cotisations.cotisation_periode AS periode,
			cotisations.cotisation_montant AS montant,
			cotisations.cotisation_date_echeance AS echeance,
			cotisations.cotisation_statut AS statut,
			users.id AS resident_id,
			users.user_name AS resident_nom,
			users.email AS resident_email,
			users.telephone AS resident_telephone`).
		Joins("JOIN logements ON logements.logement_id = cotisations.cotisation_logement_id").
		Joins("JOIN types_cotisations ON types_cotisations.type_cotisation_id = cotisations.cotisation_type_id").
		Joins("JOIN associations ON associations.association_id = cotisations.cotisation_association_id").
		Joins("JOIN users ON users.id = logements.logement_resident_id").
		Where("cotisations.cotisation_statut IN ?", []string{"due", "retard"}).
		Where("cotisations.cotisation_date_echeance <= ?", limite).
		Where("users.is_active = ?", true)
	if associationID != nil {
		tx = tx.Where("cotisations.cotisation_association_id = ?", *associationID)
	}
	if err := tx.Order("cotisations.cotisation_date_echeance ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
