package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatutDue     = "due"
	StatutPayee   = "payee"
	StatutRetard  = "retard"
	StatutAnnulee = "annulee"
)

// EstTerminal indique un statut qui ne peut plus évoluer.
func EstTerminal(statut string) bool {
	return statut == StatutPayee || statut == StatutAnnulee
}

type CotisationModel struct {
	CotisationID uuid.UUID `gorm:"column:cotisation_id;type:uuid;primaryKey" json:"cotisation_id"`

	CotisationAssociationID uuid.UUID `gorm:"column:cotisation_association_id;type:uuid;not null;index" json:"cotisation_association_id"`

	// le triplet (logement, type, periode) est la clé d'idempotence de la génération
	CotisationLogementID uuid.UUID `gorm:"column:cotisation_logement_id;type:uuid;not null;uniqueIndex:uq_cotisation_logement_type_periode" json:"cotisation_logement_id"`
	CotisationTypeID     uuid.UUID `gorm:"column:cotisation_type_id;type:uuid;not null;uniqueIndex:uq_cotisation_logement_type_periode" json:"cotisation_type_id"`

	// format YYYY-MM (mensuelle), YYYY-Tn, YYYY-Sn, YYYY (annuelle)
	CotisationPeriode string `gorm:"column:cotisation_periode;type:varchar(10);not null;uniqueIndex:uq_cotisation_logement_type_periode" json:"cotisation_periode"`

	CotisationMontant decimal.Decimal `gorm:"column:cotisation_montant;type:numeric(12,2);not null" json:"cotisation_montant"`

	// due | payee | retard | annulee
	CotisationStatut string `gorm:"column:cotisation_statut;type:varchar(10);not null;default:'due';index" json:"cotisation_statut"`

	CotisationDateEcheance time.Time `gorm:"column:cotisation_date_echeance;not null" json:"cotisation_date_echeance"`

	CotisationAnnuleePar      *uuid.UUID `gorm:"column:cotisation_annulee_par;type:uuid" json:"cotisation_annulee_par,omitempty"`
	CotisationMotifAnnulation *string    `gorm:"column:cotisation_motif_annulation;type:text" json:"cotisation_motif_annulation,omitempty"`

	CotisationCreatedAt time.Time `gorm:"column:cotisation_created_at;autoCreateTime" json:"cotisation_created_at"`
	CotisationUpdatedAt time.Time `gorm:"column:cotisation_updated_at;autoUpdateTime" json:"cotisation_updated_at"`
}

func (CotisationModel) TableName() string {
	return "cotisations"
}

func (m *CotisationModel) BeforeCreate(_ *gorm.DB) error {
	if m.CotisationID == uuid.Nil {
		m.CotisationID = uuid.New()
	}
	return nil
}
