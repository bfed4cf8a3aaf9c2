package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// DonneesRecu rassemble ce qui figure sur le reçu imprimable.
type DonneesRecu struct {
	NumeroRecu     string
	Association    string
	Adresse        string
	Logement       string
	Resident       string
	TypeCotisation string
	Periode        string
	Montant        decimal.Decimal
	Methode        string
	Reference      string
	DatePaiement   time.Time
}

var libellesMethodes = map[string]string{
	"especes":    "Espèces",
	"virement":   "Virement bancaire",
	"cheque":     "Chèque",
	"carte":      "Carte bancaire",
	"en_ligne":   "Paiement en ligne",
	"ajustement": "Ajustement",
}

// GenererRecuPDF produit le reçu A5 paysage remis au résident.
func GenererRecuPDF(d DonneesRecu) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A5", "")
	pdf.SetTitle("Reçu "+d.NumeroRecu, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(d.Association), "", 1, "C", false, 0, "")
	if d.Adresse != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(d.Adresse), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("REÇU DE PAIEMENT N° %s", d.NumeroRecu)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	methode := libellesMethodes[d.Methode]
	if methode == "" {
		methode = d.Methode
	}

	lignes := [][2]string{
		{"Date", d.DatePaiement.Format("02/01/2006")},
		{"Résident", d.Resident},
		{"Logement", d.Logement},
		{"Cotisation", d.TypeCotisation},
		{"Période", d.Periode},
		{"Méthode", methode},
	}
	if d.Reference != "" {
		lignes = append(lignes, [2]string{"Référence", d.Reference})
	}

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lignes {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, tr(l[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(l[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Montant réglé : %s DA", d.Montant.StringFixed(2))), "1", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, tr("Reçu généré automatiquement, valable sans signature."), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
