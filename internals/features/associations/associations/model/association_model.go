package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type AssociationModel struct {
	AssociationID uuid.UUID `gorm:"column:association_id;type:uuid;primaryKey" json:"association_id"`

	AssociationNom     string  `gorm:"column:association_nom;type:varchar(200);not null" json:"association_nom"`
	AssociationAdresse *string `gorm:"column:association_adresse;type:text" json:"association_adresse,omitempty"`

	// numéros de contact affichés sur les reçus et rappels
	AssociationTelephones pq.StringArray `gorm:"column:association_telephones;type:text[]" json:"association_telephones,omitempty"`

	AssociationNombreLogements int    `gorm:"column:association_nombre_logements;not null;default:0" json:"association_nombre_logements"`
	AssociationPlan            string `gorm:"column:association_plan;type:varchar(20);not null;default:'basique'" json:"association_plan"`

	// l'admin gestionnaire (role admin_association), un seul par association
	AssociationAdminID *uuid.UUID `gorm:"column:association_admin_id;type:uuid" json:"association_admin_id,omitempty"`

	AssociationActif bool `gorm:"column:association_actif;not null;default:true" json:"association_actif"`

	AssociationCreatedAt time.Time      `gorm:"column:association_created_at;autoCreateTime" json:"association_created_at"`
	AssociationUpdatedAt time.Time      `gorm:"column:association_updated_at;autoUpdateTime" json:"association_updated_at"`
	AssociationDeletedAt gorm.DeletedAt `gorm:"column:association_deleted_at;index" json:"-"`
}

func (AssociationModel) TableName() string {
	return "associations"
}

func (m *AssociationModel) BeforeCreate(_ *gorm.DB) error {
	if m.AssociationID == uuid.Nil {
		m.AssociationID = uuid.New()
	}
	return nil
}
