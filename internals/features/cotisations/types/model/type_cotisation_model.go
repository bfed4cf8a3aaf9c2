package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PeriodiciteMensuelle     = "mensuelle"
	PeriodiciteTrimestrielle = "trimestrielle"
	PeriodiciteSemestrielle  = "semestrielle"
	PeriodiciteAnnuelle      = "annuelle"
)

type TypeCotisationModel struct {
	TypeCotisationID uuid.UUID `gorm:"column:type_cotisation_id;type:uuid;primaryKey" json:"type_cotisation_id"`

	TypeCotisationAssociationID uuid.UUID `gorm:"column:type_cotisation_association_id;type:uuid;not null;uniqueIndex:uq_type_cotisation_assoc_nom" json:"type_cotisation_association_id"`

	TypeCotisationNom         string          `gorm:"column:type_cotisation_nom;type:varchar(100);not null;uniqueIndex:uq_type_cotisation_assoc_nom" json:"type_cotisation_nom"`
	TypeCotisationDescription *string         `gorm:"column:type_cotisation_description;type:text" json:"type_cotisation_description,omitempty"`
	TypeCotisationMontant     decimal.Decimal `gorm:"column:type_cotisation_montant;type:numeric(12,2);not null" json:"type_cotisation_montant"`

	// mensuelle | trimestrielle | semestrielle | annuelle
	TypeCotisationPeriodicite string `gorm:"column:type_cotisation_periodicite;type:varchar(20);not null;default:'mensuelle'" json:"type_cotisation_periodicite"`

	TypeCotisationActif bool `gorm:"column:type_cotisation_actif;not null;default:true" json:"type_cotisation_actif"`

	TypeCotisationCreatedAt time.Time      `gorm:"column:type_cotisation_created_at;autoCreateTime" json:"type_cotisation_created_at"`
	TypeCotisationUpdatedAt time.Time      `gorm:"column:type_cotisation_updated_at;autoUpdateTime" json:"type_cotisation_updated_at"`
	TypeCotisationDeletedAt gorm.DeletedAt `gorm:"column:type_cotisation_deleted_at;index" json:"-"`
}

func (TypeCotisationModel) TableName() string {
	return "types_cotisations"
}

func (m *TypeCotisationModel) BeforeCreate(_ *gorm.DB) error {
	if m.TypeCotisationID == uuid.Nil {
		m.TypeCotisationID = uuid.New()
	}
	return nil
}
