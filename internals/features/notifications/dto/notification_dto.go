package dto

import (
	"time"

	"github.com/google/uuid"

	"iltizem_backend/internals/features/notifications/model"
)

/* ======================= REQUEST ======================= */

type UpsertTemplateRequest struct {
	Code  string `json:"code" validate:"required,oneof=rappel_impaye confirmation_paiement"`
	Canal string `json:"canal" validate:"required,oneof=email sms"`
	Sujet string `json:"sujet" validate:"omitempty,max=200"`
	Corps string `json:"corps" validate:"required,max=5000"`
	Actif *bool  `json:"actif"`
}

/* ======================= RESPONSE ======================= */

type TemplateResponse struct {
	TemplateID    uuid.UUID  `json:"template_id"`
	AssociationID *uuid.UUID `json:"association_id,omitempty"`
	Code          string     `json:"code"`
	Canal         string     `json:"canal"`
	Sujet         string     `json:"sujet"`
	Corps         string     `json:"corps"`
	Actif         bool       `json:"actif"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func TemplateFromModel(m model.NotificationTemplate) TemplateResponse {
	return TemplateResponse{
		TemplateID:    m.TemplateID,
		AssociationID: m.TemplateAssociationID,
		Code:          m.TemplateCode,
		Canal:         m.TemplateCanal,
		Sujet:         m.TemplateSujet,
		Corps:         m.TemplateCorps,
		Actif:         m.TemplateActif,
		UpdatedAt:     m.TemplateUpdatedAt,
	}
}

func TemplatesFromModels(ms []model.NotificationTemplate) []TemplateResponse {
	out := make([]TemplateResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, TemplateFromModel(m))
	}
	return out
}

type LogResponse struct {
	LogID        uuid.UUID  `json:"log_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	CotisationID *uuid.UUID `json:"cotisation_id,omitempty"`
	Code         string     `json:"code"`
	Canal        string     `json:"canal"`
	Destinataire string     `json:"destinataire"`
	Sujet        string     `json:"sujet,omitempty"`
	Statut       string     `json:"statut"`
	Erreur       *string    `json:"erreur,omitempty"`
	Tentatives   int        `json:"tentatives"`
	CreatedAt    time.Time  `json:"created_at"`
}

func LogFromModel(m model.NotificationLog) LogResponse {
	return LogResponse{
		LogID:        m.LogID,
		UserID:       m.LogUserID,
		CotisationID: m.LogCotisationID,
		Code:         m.LogCode,
		Canal:        m.LogCanal,
		Destinataire: m.LogDestinataire,
		Sujet:        m.LogSujet,
		Statut:       m.LogStatut,
		Erreur:       m.LogErreur,
		Tentatives:   m.LogTentatives,
		CreatedAt:    m.LogCreatedAt,
	}
}

func LogsFromModels(ms []model.NotificationLog) []LogResponse {
	out := make([]LogResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, LogFromModel(m))
	}
	return out
}
