package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/features/notifications/model"
)

// Envoi décrit un message prêt à partir, avec son rattachement métier.
type Envoi struct {
	AssociationID *uuid.UUID
	UserID        *uuid.UUID
	CotisationID  *uuid.UUID
	Code          string
	Canal         string
	Destinataire  string
	Sujet         string
	Corps         string
}

// Dispatcher expédie un message sur le bon canal et journalise le résultat.
// L'erreur d'envoi est consignée dans notification_logs, jamais propagée:
// un destinataire en échec ne bloque pas les suivants.
func Dispatcher(db *gorm.DB, mailer Mailer, sms SMSSender, e Envoi) bool {
	var envoyErr error
	switch e.Canal {
	case model.CanalSMS:
		envoyErr = sms.Envoyer(e.Destinataire, e.Corps)
	default:
		envoyErr = mailer.Envoyer(e.Destinataire, e.Sujet, e.Corps)
	}

	logRow := model.NotificationLog{
		LogAssociationID: e.AssociationID,
		LogUserID:        e.UserID,
		LogCotisationID:  e.CotisationID,
		LogCode:          e.Code,
		LogCanal:         e.Canal,
		LogDestinataire:  e.Destinataire,
		LogSujet:         e.Sujet,
		LogCorps:         e.Corps,
		LogStatut:        model.EnvoiReussi,
		LogTentatives:    1,
	}
	if envoyErr != nil {
		msg := envoyErr.Error()
		logRow.LogStatut = model.EnvoiEchoue
		logRow.LogErreur = &msg
	}
	db.Create(&logRow)

	return envoyErr == nil
}
