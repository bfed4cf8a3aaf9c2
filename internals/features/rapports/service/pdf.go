package service

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// GenererPDF met en page le rapport pour impression (A4 portrait).
func GenererPDF(d DonneesRapport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Rapport %s %s", d.Type, d.Periode), true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(d.Association), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Rapport %s - Période %s", d.Type, d.Periode)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// synthèse
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Synthèse"), "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	synthese := [][2]string{
		{"Cotisations émises", fmt.Sprintf("%d", d.NbCotisations)},
		{"Payées", fmt.Sprintf("%d", d.NbPayees)},
		{"Impayées", fmt.Sprintf("%d", d.NbImpayees)},
		{"Annulées", fmt.Sprintf("%d", d.NbAnnulees)},
		{"Montant attendu", d.MontantAttendu.StringFixed(2) + " DA"},
		{"Montant collecté", d.MontantCollecte.StringFixed(2) + " DA"},
		{"Taux de recouvrement", d.TauxRecouvrement.StringFixed(2) + " %"},
	}
	for _, l := range synthese {
		pdf.CellFormat(70, 6, tr(l[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(l[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(d.ParMethode) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr("Encaissements par méthode"), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, tr("Méthode"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr("Nombre"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, tr("Montant (DA)"), "1", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, l := range d.ParMethode {
			pdf.CellFormat(60, 6, tr(l.Methode), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, fmt.Sprintf("%d", l.Nombre), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 6, l.Montant.StringFixed(2), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(d.Impayes) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr("Impayés"), "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(30, 6, tr("Logement"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr("Résident"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr("Période"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr("Montant (DA)"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, tr("Statut"), "1", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, l := range d.Impayes {
			pdf.CellFormat(30, 6, tr(l.Logement), "1", 0, "L", false, 0, "")
			pdf.CellFormat(60, 6, tr(l.Resident), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, tr(l.Periode), "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, l.Montant.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 6, tr(l.Statut), "1", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
