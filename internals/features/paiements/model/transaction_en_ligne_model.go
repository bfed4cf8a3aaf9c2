package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionEnAttente = "en_attente"
	TransactionReglee    = "reglee"
	TransactionEchouee   = "echouee"
	TransactionExpiree   = "expiree"
)

// TransactionEnLigne trace une session de paiement chez le prestataire
// (plan gold). Le règlement effectif passe par la même réconciliation que
// les paiements manuels, avec la méthode en_ligne.
type TransactionEnLigne struct {
	TransactionID uuid.UUID `gorm:"column:transaction_id;type:uuid;primaryKey" json:"transaction_id"`

	TransactionAssociationID uuid.UUID `gorm:"column:transaction_association_id;type:uuid;not null;index" json:"transaction_association_id"`
	TransactionCotisationID  uuid.UUID `gorm:"column:transaction_cotisation_id;type:uuid;not null;index" json:"transaction_cotisation_id"`
	TransactionUserID        uuid.UUID `gorm:"column:transaction_user_id;type:uuid;not null" json:"transaction_user_id"`

	// identifiant envoyé au prestataire, revient dans le webhook
	TransactionOrderID string `gorm:"column:transaction_order_id;type:varchar(64);not null;uniqueIndex" json:"transaction_order_id"`

	TransactionMontant decimal.Decimal `gorm:"column:transaction_montant;type:numeric(12,2);not null" json:"transaction_montant"`

	// en_attente | reglee | echouee | expiree
	TransactionStatut string `gorm:"column:transaction_statut;type:varchar(12);not null;default:'en_attente'" json:"transaction_statut"`

	TransactionSnapToken   *string `gorm:"column:transaction_snap_token;type:varchar(255)" json:"transaction_snap_token,omitempty"`
	TransactionRedirectURL *string `gorm:"column:transaction_redirect_url;type:text" json:"transaction_redirect_url,omitempty"`

	TransactionCreatedAt time.Time `gorm:"column:transaction_created_at;autoCreateTime" json:"transaction_created_at"`
	TransactionUpdatedAt time.Time `gorm:"column:transaction_updated_at;autoUpdateTime" json:"transaction_updated_at"`
}

func (TransactionEnLigne) TableName() string {
	return "transactions_en_ligne"
}

func (m *TransactionEnLigne) BeforeCreate(_ *gorm.DB) error {
	if m.TransactionID == uuid.Nil {
		m.TransactionID = uuid.New()
	}
	return nil
}
