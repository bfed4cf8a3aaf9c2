package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"iltizem_backend/internals/features/cotisations/cotisations/model"
)

/* ======================= REQUEST ======================= */

type GenererCotisationsRequest struct {
	TypeID  *string `json:"type_id" validate:"omitempty,uuid"`
	Periode string  `json:"periode" validate:"omitempty,max=10"`
}

type AnnulerCotisationRequest struct {
	Motif string `json:"motif" validate:"required,min=3,max=500"`
}

/* ======================= RESPONSE ======================= */

type CotisationResponse struct {
	CotisationID    uuid.UUID       `json:"cotisation_id"`
	AssociationID   uuid.UUID       `json:"association_id"`
	LogementID      uuid.UUID       `json:"logement_id"`
	TypeID          uuid.UUID       `json:"type_id"`
	Periode         string          `json:"periode"`
	Montant         decimal.Decimal `json:"montant"`
	Statut          string          `json:"statut"`
	DateEcheance    time.Time       `json:"date_echeance"`
	MotifAnnulation *string         `json:"motif_annulation,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// FromModel projette le modèle avec un statut déjà réévalué par l'appelant.
func FromModel(m model.CotisationModel, statutEffectif string) CotisationResponse {
	return CotisationResponse{
		CotisationID:    m.CotisationID,
		AssociationID:   m.CotisationAssociationID,
		LogementID:      m.CotisationLogementID,
		TypeID:          m.CotisationTypeID,
		Periode:         m.CotisationPeriode,
		Montant:         m.CotisationMontant,
		Statut:          statutEffectif,
		DateEcheance:    m.CotisationDateEcheance,
		MotifAnnulation: m.CotisationMotifAnnulation,
		CreatedAt:       m.CotisationCreatedAt,
	}
}
