package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnvoiReussi = "envoye"
	EnvoiEchoue = "echec"
)

// NotificationLog trace chaque envoi, réussi ou non. Un échec individuel
// n'interrompt jamais la tournée de rappels.
type NotificationLog struct {
	LogID uuid.UUID `gorm:"column:log_id;type:uuid;primaryKey" json:"log_id"`

	LogAssociationID *uuid.UUID `gorm:"column:log_association_id;type:uuid;index" json:"log_association_id,omitempty"`
	LogUserID        *uuid.UUID `gorm:"column:log_user_id;type:uuid" json:"log_user_id,omitempty"`
	LogCotisationID  *uuid.UUID `gorm:"column:log_cotisation_id;type:uuid" json:"log_cotisation_id,omitempty"`

	LogCode         string `gorm:"column:log_code;type:varchar(40);not null" json:"log_code"`
	LogCanal        string `gorm:"column:log_canal;type:varchar(10);not null" json:"log_canal"`
	LogDestinataire string `gorm:"column:log_destinataire;type:varchar(200);not null" json:"log_destinataire"`
	LogSujet        string `gorm:"column:log_sujet;type:varchar(200)" json:"log_sujet"`
	// corps conservé pour pouvoir renvoyer le message tel quel
	LogCorps string `gorm:"column:log_corps;type:text" json:"log_corps,omitempty"`

	// envoye | echec
	LogStatut string  `gorm:"column:log_statut;type:varchar(10);not null" json:"log_statut"`
	LogErreur *string `gorm:"column:log_erreur;type:text" json:"log_erreur,omitempty"`
	// nombre d'envois tentés, relance possible tant que < MaxTentativesEnvoi
	LogTentatives int `gorm:"column:log_tentatives;not null;default:1" json:"log_tentatives"`

	LogCreatedAt time.Time `gorm:"column:log_created_at;autoCreateTime" json:"log_created_at"`
}

func (NotificationLog) TableName() string {
	return "notification_logs"
}

func (m *NotificationLog) BeforeCreate(_ *gorm.DB) error {
	if m.LogID == uuid.Nil {
		m.LogID = uuid.New()
	}
	return nil
}
