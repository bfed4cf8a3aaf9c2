package service

import (
	"log"

	"iltizem_backend/internals/configs"
)

// SMSSender abstrait la passerelle SMS (plans Silver+).
type SMSSender interface {
	Envoyer(telephone, message string) error
}

// LogSMSSender écrit le SMS dans les logs au lieu de l'envoyer. Sert de
// passerelle par défaut tant qu'aucun prestataire SMS n'est branché
// (SMS_PROVIDER=local).
type LogSMSSender struct{}

func (LogSMSSender) Envoyer(telephone, message string) error {
	log.Printf("[SMS] -> %s (%s): %s", telephone, configs.SMSSenderName, message)
	return nil
}

// NewSMSSender choisit la passerelle selon SMS_PROVIDER.
// TODO: brancher un agrégateur DZ (ex: SMS Gateway Mobilis) quand le compte
// de production sera ouvert.
func NewSMSSender() SMSSender {
	if configs.SMSProvider != "local" && configs.SMSProvider != "" {
		log.Printf("⚠️ SMS_PROVIDER %q non supporté, fallback sur les logs", configs.SMSProvider)
	}
	return LogSMSSender{}
}
