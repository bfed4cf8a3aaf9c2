package service

import (
	"fmt"
	"strconv"

	gomail "gopkg.in/gomail.v2"

	"iltizem_backend/internals/configs"
)

// Mailer abstrait l'envoi d'emails (SMTP en production, fake en test).
type Mailer interface {
	Envoyer(destinataire, sujet, corps string) error
}

// SMTPMailer envoie via le serveur SMTP configuré par l'environnement.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPMailer() *SMTPMailer {
	port, err := strconv.Atoi(configs.SMTPPort)
	if err != nil || port <= 0 {
		port = 587
	}
	return &SMTPMailer{
		Host:     configs.SMTPHost,
		Port:     port,
		Username: configs.SMTPUser,
		Password: configs.SMTPPassword,
		From:     configs.SMTPFrom,
	}
}

func (m *SMTPMailer) Envoyer(destinataire, sujet, corps string) error {
	if m.Host == "" {
		return fmt.Errorf("SMTP_HOST non configuré")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", destinataire)
	msg.SetHeader("Subject", sujet)
	msg.SetBody("text/plain", corps)

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	return d.DialAndSend(msg)
}
