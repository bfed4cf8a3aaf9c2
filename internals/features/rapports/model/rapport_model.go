package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RapportMensuel = "mensuel"
	RapportAnnuel  = "annuel"
)

type RapportModel struct {
	RapportID uuid.UUID `gorm:"column:rapport_id;type:uuid;primaryKey" json:"rapport_id"`

	RapportAssociationID uuid.UUID `gorm:"column:rapport_association_id;type:uuid;not null;uniqueIndex:uq_rapport_assoc_type_periode" json:"rapport_association_id"`

	// mensuel | annuel
	RapportType string `gorm:"column:rapport_type;type:varchar(10);not null;uniqueIndex:uq_rapport_assoc_type_periode" json:"rapport_type"`

	// YYYY-MM (mensuel) ou YYYY (annuel)
	RapportPeriode string `gorm:"column:rapport_periode;type:varchar(10);not null;uniqueIndex:uq_rapport_assoc_type_periode" json:"rapport_periode"`

	// agrégats sérialisés, la source des exports
	RapportDonnees datatypes.JSON `gorm:"column:rapport_donnees;type:jsonb" json:"rapport_donnees"`

	RapportFichierPDF   *string `gorm:"column:rapport_fichier_pdf;type:varchar(255)" json:"rapport_fichier_pdf,omitempty"`
	RapportFichierExcel *string `gorm:"column:rapport_fichier_excel;type:varchar(255)" json:"rapport_fichier_excel,omitempty"`
	RapportFichierCSV   *string `gorm:"column:rapport_fichier_csv;type:varchar(255)" json:"rapport_fichier_csv,omitempty"`

	RapportGenerePar *uuid.UUID `gorm:"column:rapport_genere_par;type:uuid" json:"rapport_genere_par,omitempty"`

	RapportCreatedAt time.Time `gorm:"column:rapport_created_at;autoCreateTime" json:"rapport_created_at"`
	RapportUpdatedAt time.Time `gorm:"column:rapport_updated_at;autoUpdateTime" json:"rapport_updated_at"`
}

func (RapportModel) TableName() string {
	return "rapports"
}

func (m *RapportModel) BeforeCreate(_ *gorm.DB) error {
	if m.RapportID == uuid.Nil {
		m.RapportID = uuid.New()
	}
	return nil
}
