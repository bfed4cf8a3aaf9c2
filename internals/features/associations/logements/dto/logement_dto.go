package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"iltizem_backend/internals/features/associations/logements/model"
)

/* ======================= REQUEST ======================= */

type CreateLogementRequest struct {
	Numero          string           `json:"numero" validate:"required,min=1,max=30"`
	Etage           *string          `json:"etage" validate:"omitempty,max=10"`
	Superficie      *decimal.Decimal `json:"superficie"`
	MontantOverride *decimal.Decimal `json:"montant_override"`
	ResidentID      *string          `json:"resident_id" validate:"omitempty,uuid"`
}

func (r CreateLogementRequest) ToModel(associationID uuid.UUID) *model.LogementModel {
	m := &model.LogementModel{
		LogementAssociationID:   associationID,
		LogementNumero:          r.Numero,
		LogementEtage:           r.Etage,
		LogementSuperficie:      r.Superficie,
		LogementMontantOverride: r.MontantOverride,
		LogementActif:           true,
	}
	if r.ResidentID != nil {
		if id, err := uuid.Parse(*r.ResidentID); err == nil {
			m.LogementResidentID = &id
		}
	}
	return m
}

type UpdateLogementRequest struct {
	Numero          *string          `json:"numero" validate:"omitempty,min=1,max=30"`
	Etage           *string          `json:"etage" validate:"omitempty,max=10"`
	Superficie      *decimal.Decimal `json:"superficie"`
	MontantOverride *decimal.Decimal `json:"montant_override"`
	ResidentID      *string          `json:"resident_id" validate:"omitempty,uuid"`
	Actif           *bool            `json:"actif"`

	// true pour détacher le résident actuel
	DetacherResident bool `json:"detacher_resident"`
}

func (r UpdateLogementRequest) ApplyTo(m *model.LogementModel) {
	if r.Numero != nil {
		m.LogementNumero = *r.Numero
	}
	if r.Etage != nil {
		m.LogementEtage = r.Etage
	}
	if r.Superficie != nil {
		m.LogementSuperficie = r.Superficie
	}
	if r.MontantOverride != nil {
		m.LogementMontantOverride = r.MontantOverride
	}
	if r.DetacherResident {
		m.LogementResidentID = nil
	} else if r.ResidentID != nil {
		if id, err := uuid.Parse(*r.ResidentID); err == nil {
			m.LogementResidentID = &id
		}
	}
	if r.Actif != nil {
		m.LogementActif = *r.Actif
	}
}

/* ======================= RESPONSE ======================= */

type LogementResponse struct {
	LogementID      uuid.UUID        `json:"logement_id"`
	AssociationID   uuid.UUID        `json:"association_id"`
	Numero          string           `json:"numero"`
	Etage           *string          `json:"etage,omitempty"`
	Superficie      *decimal.Decimal `json:"superficie,omitempty"`
	MontantOverride *decimal.Decimal `json:"montant_override,omitempty"`
	ResidentID      *uuid.UUID       `json:"resident_id,omitempty"`
	Actif           bool             `json:"actif"`
	CreatedAt       time.Time        `json:"created_at"`
}

func FromModel(m model.LogementModel) LogementResponse {
	return LogementResponse{
		LogementID:      m.LogementID,
		AssociationID:   m.LogementAssociationID,
		Numero:          m.LogementNumero,
		Etage:           m.LogementEtage,
		Superficie:      m.LogementSuperficie,
		MontantOverride: m.LogementMontantOverride,
		ResidentID:      m.LogementResidentID,
		Actif:           m.LogementActif,
		CreatedAt:       m.LogementCreatedAt,
	}
}

func FromModels(ms []model.LogementModel) []LogementResponse {
	out := make([]LogementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}
