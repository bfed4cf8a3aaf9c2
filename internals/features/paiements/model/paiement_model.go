package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MethodeEspeces    = "especes"
	MethodeVirement   = "virement"
	MethodeCheque     = "cheque"
	MethodeCarte      = "carte"
	MethodeEnLigne    = "en_ligne"
	MethodeAjustement = "ajustement"
)

type PaiementModel struct {
	PaiementID uuid.UUID `gorm:"column:paiement_id;type:uuid;primaryKey" json:"paiement_id"`

	PaiementAssociationID uuid.UUID `gorm:"column:paiement_association_id;type:uuid;not null;uniqueIndex:uq_paiement_assoc_recu" json:"paiement_association_id"`

	// une cotisation ne se règle qu'une fois
	PaiementCotisationID uuid.UUID `gorm:"column:paiement_cotisation_id;type:uuid;not null;uniqueIndex" json:"paiement_cotisation_id"`

	PaiementMontant decimal.Decimal `gorm:"column:paiement_montant;type:numeric(12,2);not null" json:"paiement_montant"`

	// especes | virement | cheque | carte | en_ligne | ajustement
	PaiementMethode string `gorm:"column:paiement_methode;type:varchar(15);not null" json:"paiement_methode"`

	// numéro de reçu PREFIX-ANNEE-SEQ, unique dans l'association
	PaiementNumeroRecu string `gorm:"column:paiement_numero_recu;type:varchar(20);not null;uniqueIndex:uq_paiement_assoc_recu" json:"paiement_numero_recu"`

	PaiementReference *string `gorm:"column:paiement_reference;type:varchar(100)" json:"paiement_reference,omitempty"`
	PaiementNote      *string `gorm:"column:paiement_note;type:text" json:"paiement_note,omitempty"`

	// l'admin qui a saisi le paiement (null pour un paiement en ligne)
	PaiementEnregistrePar *uuid.UUID `gorm:"column:paiement_enregistre_par;type:uuid" json:"paiement_enregistre_par,omitempty"`

	PaiementDate time.Time `gorm:"column:paiement_date;not null" json:"paiement_date"`

	PaiementCreatedAt time.Time `gorm:"column:paiement_created_at;autoCreateTime" json:"paiement_created_at"`
}

func (PaiementModel) TableName() string {
	return "paiements"
}

func (m *PaiementModel) BeforeCreate(_ *gorm.DB) error {
	if m.PaiementID == uuid.Nil {
		m.PaiementID = uuid.New()
	}
	return nil
}
