package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CanalEmail = "email"
	CanalSMS   = "sms"

	CodeRappelImpaye         = "rappel_impaye"
	CodeConfirmationPaiement = "confirmation_paiement"
)

// NotificationTemplate: gabarit de message par (association, code, canal).
// Une ligne sans association sert de gabarit par défaut.
type NotificationTemplate struct {
	TemplateID uuid.UUID `gorm:"column:template_id;type:uuid;primaryKey" json:"template_id"`

	TemplateAssociationID *uuid.UUID `gorm:"column:template_association_id;type:uuid;uniqueIndex:uq_template_assoc_code_canal" json:"template_association_id,omitempty"`

	// rappel_impaye | confirmation_paiement
	TemplateCode string `gorm:"column:template_code;type:varchar(40);not null;uniqueIndex:uq_template_assoc_code_canal" json:"template_code"`

	// email | sms
	TemplateCanal string `gorm:"column:template_canal;type:varchar(10);not null;uniqueIndex:uq_template_assoc_code_canal" json:"template_canal"`

	TemplateSujet string `gorm:"column:template_sujet;type:varchar(200)" json:"template_sujet"`
	TemplateCorps string `gorm:"column:template_corps;type:text;not null" json:"template_corps"`

	TemplateActif bool `gorm:"column:template_actif;not null;default:true" json:"template_actif"`

	TemplateCreatedAt time.Time `gorm:"column:template_created_at;autoCreateTime" json:"template_created_at"`
	TemplateUpdatedAt time.Time `gorm:"column:template_updated_at;autoUpdateTime" json:"template_updated_at"`
}

func (NotificationTemplate) TableName() string {
	return "notification_templates"
}

func (m *NotificationTemplate) BeforeCreate(_ *gorm.DB) error {
	if m.TemplateID == uuid.Nil {
		m.TemplateID = uuid.New()
	}
	return nil
}
