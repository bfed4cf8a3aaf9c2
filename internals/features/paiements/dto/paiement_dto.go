package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"iltizem_backend/internals/features/paiements/model"
)

/* ======================= REQUEST ======================= */

type EnregistrerPaiementRequest struct {
	CotisationID string          `json:"cotisation_id" validate:"required,uuid"`
	Methode      string          `json:"methode" validate:"required,oneof=especes virement cheque carte ajustement"`
	Montant      decimal.Decimal `json:"montant" validate:"required"`
	Reference    *string         `json:"reference" validate:"omitempty,max=100"`
	Note         *string         `json:"note" validate:"omitempty,max=1000"`
	Date         *time.Time      `json:"date"`
}

type PayerEnLigneRequest struct {
	CotisationID string `json:"cotisation_id" validate:"required,uuid"`
}

/* ======================= RESPONSE ======================= */

type PaiementResponse struct {
	PaiementID    uuid.UUID       `json:"paiement_id"`
	AssociationID uuid.UUID       `json:"association_id"`
	CotisationID  uuid.UUID       `json:"cotisation_id"`
	Montant       decimal.Decimal `json:"montant"`
	Methode       string          `json:"methode"`
	NumeroRecu    string          `json:"numero_recu"`
	Reference     *string         `json:"reference,omitempty"`
	Note          *string         `json:"note,omitempty"`
	EnregistrePar *uuid.UUID      `json:"enregistre_par,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`

	// renseignés à la création: couverture du montant attendu
	PaiementComplet *bool            `json:"paiement_complet,omitempty"`
	Difference      *decimal.Decimal `json:"difference,omitempty"`
}

func FromModel(m model.PaiementModel) PaiementResponse {
	return PaiementResponse{
		PaiementID:    m.PaiementID,
		AssociationID: m.PaiementAssociationID,
		CotisationID:  m.PaiementCotisationID,
		Montant:       m.PaiementMontant,
		Methode:       m.PaiementMethode,
		NumeroRecu:    m.PaiementNumeroRecu,
		Reference:     m.PaiementReference,
		Note:          m.PaiementNote,
		EnregistrePar: m.PaiementEnregistrePar,
		Date:          m.PaiementDate,
		CreatedAt:     m.PaiementCreatedAt,
	}
}

// FromModelAvecEcart enrichit la réponse de la couverture du montant attendu:
// paiement_complet vaut true dès que le règlement atteint le montant de la
// cotisation, difference = montant payé - montant attendu.
func FromModelAvecEcart(m model.PaiementModel, montantCotisation decimal.Decimal) PaiementResponse {
	resp := FromModel(m)
	complet := m.PaiementMontant.GreaterThanOrEqual(montantCotisation)
	diff := m.PaiementMontant.Sub(montantCotisation)
	resp.PaiementComplet = &complet
	resp.Difference = &diff
	return resp
}

func FromModels(ms []model.PaiementModel) []PaiementResponse {
	out := make([]PaiementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, FromModel(m))
	}
	return out
}

type TransactionEnLigneResponse struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	CotisationID  uuid.UUID       `json:"cotisation_id"`
	OrderID       string          `json:"order_id"`
	Montant       decimal.Decimal `json:"montant"`
	Statut        string          `json:"statut"`
	SnapToken     *string         `json:"snap_token,omitempty"`
	RedirectURL   *string         `json:"redirect_url,omitempty"`
}

func FromTransaction(m model.TransactionEnLigne) TransactionEnLigneResponse {
	return TransactionEnLigneResponse{
		TransactionID: m.TransactionID,
		CotisationID:  m.TransactionCotisationID,
		OrderID:       m.TransactionOrderID,
		Montant:       m.TransactionMontant,
		Statut:        m.TransactionStatut,
		SnapToken:     m.TransactionSnapToken,
		RedirectURL:   m.TransactionRedirectURL,
	}
}
