package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LogementModel struct {
	LogementID uuid.UUID `gorm:"column:logement_id;type:uuid;primaryKey" json:"logement_id"`

	LogementAssociationID uuid.UUID `gorm:"column:logement_association_id;type:uuid;not null;uniqueIndex:uq_logement_assoc_numero" json:"logement_association_id"`

	// numéro de porte/lot, unique dans l'association
	LogementNumero string `gorm:"column:logement_numero;type:varchar(30);not null;uniqueIndex:uq_logement_assoc_numero" json:"logement_numero"`

	LogementEtage      *string          `gorm:"column:logement_etage;type:varchar(10)" json:"logement_etage,omitempty"`
	LogementSuperficie *decimal.Decimal `gorm:"column:logement_superficie;type:numeric(8,2)" json:"logement_superficie,omitempty"`

	// montant spécifique qui prime sur le tarif du type de cotisation
	LogementMontantOverride *decimal.Decimal `gorm:"column:logement_montant_override;type:numeric(12,2)" json:"logement_montant_override,omitempty"`

	LogementResidentID *uuid.UUID `gorm:"column:logement_resident_id;type:uuid" json:"logement_resident_id,omitempty"`

	LogementActif bool `gorm:"column:logement_actif;not null;default:true" json:"logement_actif"`

	LogementCreatedAt time.Time      `gorm:"column:logement_created_at;autoCreateTime" json:"logement_created_at"`
	LogementUpdatedAt time.Time      `gorm:"column:logement_updated_at;autoUpdateTime" json:"logement_updated_at"`
	LogementDeletedAt gorm.DeletedAt `gorm:"column:logement_deleted_at;index" json:"-"`
}

func (LogementModel) TableName() string {
	return "logements"
}

func (m *LogementModel) BeforeCreate(_ *gorm.DB) error {
	if m.LogementID == uuid.Nil {
		m.LogementID = uuid.New()
	}
	return nil
}
