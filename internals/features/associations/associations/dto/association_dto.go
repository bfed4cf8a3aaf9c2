package dto

import (
	"time"

	"github.com/google/uuid"

	"iltizem_backend/internals/features/associations/associations/model"
)

/* ======================= REQUEST ======================= */

type CreateAssociationRequest struct {
	Nom             string   `json:"nom" validate:"required,min=3,max=200"`
	Adresse         *string  `json:"adresse" validate:"omitempty,max=500"`
	Telephones      []string `json:"telephones" validate:"omitempty,dive,max=15"`
	NombreLogements int      `json:"nombre_logements" validate:"omitempty,min=0"`
	Plan            string   `json:"plan" validate:"omitempty,oneof=basique silver gold"`
	AdminID         *string  `json:"admin_id" validate:"omitempty,uuid"`
}

func (r CreateAssociationRequest) ToModel() *model.AssociationModel {
	m := &model.AssociationModel{
		AssociationNom:             r.Nom,
		AssociationAdresse:         r.Adresse,
		AssociationTelephones:      r.Telephones,
		AssociationNombreLogements: r.NombreLogements,
		AssociationPlan:            r.Plan,
		AssociationActif:           true,
	}
	if m.AssociationPlan == "" {
		m.AssociationPlan = "basique"
	}
	if r.AdminID != nil {
		if id, err := uuid.Parse(*r.AdminID); err == nil {
			m.AssociationAdminID = &id
		}
	}
	return m
}

type UpdateAssociationRequest struct {
	Nom             *string  `json:"nom" validate:"omitempty,min=3,max=200"`
	Adresse         *string  `json:"adresse" validate:"omitempty,max=500"`
	Telephones      []string `json:"telephones" validate:"omitempty,dive,max=15"`
	NombreLogements *int     `json:"nombre_logements" validate:"omitempty,min=0"`
	Plan            *string  `json:"plan" validate:"omitempty,oneof=basique silver gold"`
	AdminID         *string  `json:"admin_id" validate:"omitempty,uuid"`
	Actif           *bool    `json:"actif"`
}

func (r UpdateAssociationRequest) ApplyTo(m *model.AssociationModel) {
	if r.Nom != nil {
		m.AssociationNom = *r.Nom
	}
	if r.Adresse != nil {
		m.AssociationAdresse = r.Adresse
	}
	if r.Telephones != nil {
		m.AssociationTelephones = r.Telephones
	}
	if r.NombreLogements != nil {
		m.AssociationNombreLogements = *r.NombreLogements
	}
	if r.Plan != nil {
		m.AssociationPlan = *r.Plan
	}
	if r.AdminID != nil {
		if id, err := uuid.Parse(*r.AdminID); err == nil {
			m.AssociationAdminID = &id
		}
	}
	if r.Actif != nil {
		m.AssociationActif = *r.Actif
	}
}

/* ======================= RESPONSE ======================= */

type AssociationResponse struct {
	AssociationID   uuid.UUID  `json:"association_id"`
	Nom             string     `json:"nom"`
	Adresse         *string    `json:"adresse,omitempty"`
	Telephones      []string   `json:"telephones,omitempty"`
	NombreLogements int        `json:"nombre_logements"`
	Plan            string     `json:"plan"`
	AdminID         *uuid.UUID `json:"admin_id,omitempty"`
	Actif           bool       `json:"actif"`
	CreatedAt       time.Time  `json:"created_at"`
}

func FromModel(m model.AssociationModel) AssociationResponse {
	return AssociationResponse{
		AssociationID:   m.AssociationID,
		Nom:             m.AssociationNom,
		Adresse:         m.AssociationAdresse,
		Telephones:      m.AssociationTelephones,
		NombreLogements: m.AssociationNombreLogements,
		Plan:            m.AssociationPlan,
		AdminID:         m.AssociationAdminID,
		Actif:           m.AssociationActif,
		CreatedAt:       m.AssociationCreatedAt,
	}
}

func FromModels(ms []model.AssociationModel) []AssociationResponse {
	out := make([]AssociationResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}
