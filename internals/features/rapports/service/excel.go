package service

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenererExcel produit le classeur d'export (plans Silver+): une feuille de
// synthèse, une feuille par méthode, une feuille des impayés.
func GenererExcel(d DonneesRapport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const synthese = "Synthèse"
	f.SetSheetName("Sheet1", synthese)

	entete, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})

	lignes := [][]interface{}{
		{"Association", d.Association},
		{"Rapport", d.Type},
		{"Période", d.Periode},
		{},
		{"Cotisations émises", d.NbCotisations},
		{"Payées", d.NbPayees},
		{"Impayées", d.NbImpayees},
		{"Annulées", d.NbAnnulees},
		{"Montant attendu (DA)", d.MontantAttendu.InexactFloat64()},
		{"Montant collecté (DA)", d.MontantCollecte.InexactFloat64()},
		{"Taux de recouvrement (%)", d.TauxRecouvrement.InexactFloat64()},
	}
	for i, l := range lignes {
		if len(l) == 0 {
			continue
		}
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(synthese, cell, &l); err != nil {
			return nil, err
		}
	}
	f.SetCellStyle(synthese, "A1", "A11", entete)
	f.SetColWidth(synthese, "A", "A", 28)
	f.SetColWidth(synthese, "B", "B", 22)

	if len(d.ParMethode) > 0 {
		const feuille = "Par méthode"
		if _, err := f.NewSheet(feuille); err != nil {
			return nil, err
		}
		header := []interface{}{"Méthode", "Nombre", "Montant (DA)"}
		f.SetSheetRow(feuille, "A1", &header)
		f.SetCellStyle(feuille, "A1", "C1", entete)
		for i, l := range d.ParMethode {
			row := []interface{}{l.Methode, l.Nombre, l.Montant.InexactFloat64()}
			f.SetSheetRow(feuille, fmt.Sprintf("A%d", i+2), &row)
		}
		f.SetColWidth(feuille, "A", "C", 18)
	}

	if len(d.Impayes) > 0 {
		const feuille = "Impayés"
		if _, err := f.NewSheet(feuille); err != nil {
			return nil, err
		}
		header := []interface{}{"Logement", "Résident", "Période", "Montant (DA)", "Statut"}
		f.SetSheetRow(feuille, "A1", &header)
		f.SetCellStyle(feuille, "A1", "E1", entete)
		for i, l := range d.Impayes {
			row := []interface{}{l.Logement, l.Resident, l.Periode, l.Montant.InexactFloat64(), l.Statut}
			f.SetSheetRow(feuille, fmt.Sprintf("A%d", i+2), &row)
		}
		f.SetColWidth(feuille, "A", "E", 18)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
