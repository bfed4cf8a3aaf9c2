package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"iltizem_backend/internals/features/rapports/model"
)

/* ======================= REQUEST ======================= */

type GenererRapportRequest struct {
	Type    string `json:"type" validate:"required,oneof=mensuel annuel"`
	Periode string `json:"periode" validate:"required,min=4,max=10"`
}

/* ======================= RESPONSE ======================= */

type RapportResponse struct {
	RapportID     uuid.UUID      `json:"rapport_id"`
	AssociationID uuid.UUID      `json:"association_id"`
	Type          string         `json:"type"`
	Periode       string         `json:"periode"`
	Donnees       datatypes.JSON `json:"donnees"`
	FichierPDF    *string        `json:"fichier_pdf,omitempty"`
	FichierExcel  *string        `json:"fichier_excel,omitempty"`
	FichierCSV    *string        `json:"fichier_csv,omitempty"`
	GenerePar     *uuid.UUID     `json:"genere_par,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func FromModel(m model.RapportModel) RapportResponse {
	return RapportResponse{
		RapportID:     m.RapportID,
		AssociationID: m.RapportAssociationID,
		Type:          m.RapportType,
		Periode:       m.RapportPeriode,
		Donnees:       m.RapportDonnees,
		FichierPDF:    m.RapportFichierPDF,
		FichierExcel:  m.RapportFichierExcel,
		FichierCSV:    m.RapportFichierCSV,
		GenerePar:     m.RapportGenerePar,
		UpdatedAt:     m.RapportUpdatedAt,
	}
}

func FromModels(ms []model.RapportModel) []RapportResponse {
	out := make([]RapportResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}
