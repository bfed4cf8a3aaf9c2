package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"iltizem_backend/internals/features/cotisations/types/model"
)

/* ======================= REQUEST ======================= */

type CreateTypeCotisationRequest struct {
	Nom         string          `json:"nom" validate:"required,min=2,max=100"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	Montant     decimal.Decimal `json:"montant" validate:"required"`
	Periodicite string          `json:"periodicite" validate:"omitempty,oneof=mensuelle trimestrielle semestrielle annuelle"`
}

func (r CreateTypeCotisationRequest) ToModel(associationID uuid.UUID) *model.TypeCotisationModel {
	m := &model.TypeCotisationModel{
		TypeCotisationAssociationID: associationID,
		TypeCotisationNom:           r.Nom,
		TypeCotisationDescription:   r.Description,
		TypeCotisationMontant:       r.Montant,
		TypeCotisationPeriodicite:   r.Periodicite,
		TypeCotisationActif:         true,
	}
	if m.TypeCotisationPeriodicite == "" {
		m.TypeCotisationPeriodicite = model.PeriodiciteMensuelle
	}
	return m
}

type UpdateTypeCotisationRequest struct {
	Nom         *string          `json:"nom" validate:"omitempty,min=2,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Montant     *decimal.Decimal `json:"montant"`
	Periodicite *string          `json:"periodicite" validate:"omitempty,oneof=mensuelle trimestrielle semestrielle annuelle"`
	Actif       *bool            `json:"actif"`
}

func (r UpdateTypeCotisationRequest) ApplyTo(m *model.TypeCotisationModel) {
	if r.Nom != nil {
		m.TypeCotisationNom = *r.Nom
	}
	if r.Description != nil {
		m.TypeCotisationDescription = r.Description
	}
	if r.Montant != nil {
		m.TypeCotisationMontant = *r.Montant
	}
	if r.Periodicite != nil {
		m.TypeCotisationPeriodicite = *r.Periodicite
	}
	if r.Actif != nil {
		m.TypeCotisationActif = *r.Actif
	}
}

/* ======================= RESPONSE ======================= */

type TypeCotisationResponse struct {
	TypeCotisationID uuid.UUID       `json:"type_cotisation_id"`
	AssociationID    uuid.UUID       `json:"association_id"`
	Nom              string          `json:"nom"`
	Description      *string         `json:"description,omitempty"`
	Montant          decimal.Decimal `json:"montant"`
	Periodicite      string          `json:"periodicite"`
	Actif            bool            `json:"actif"`
	CreatedAt        time.Time       `json:"created_at"`
}

func FromModel(m model.TypeCotisationModel) TypeCotisationResponse {
	return TypeCotisationResponse{
		TypeCotisationID: m.TypeCotisationID,
		AssociationID:    m.TypeCotisationAssociationID,
		Nom:              m.TypeCotisationNom,
		Description:      m.TypeCotisationDescription,
		Montant:          m.TypeCotisationMontant,
		Periodicite:      m.TypeCotisationPeriodicite,
		Actif:            m.TypeCotisationActif,
		CreatedAt:        m.TypeCotisationCreatedAt,
	}
}

func FromModels(ms []model.TypeCotisationModel) []TypeCotisationResponse {
	out := make([]TypeCotisationResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}
