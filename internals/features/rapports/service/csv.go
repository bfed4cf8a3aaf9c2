package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// GenererCSV exporte les impayés au format CSV (séparateur point-virgule,
// ouvrable directement dans les tableurs francophones).
func GenererCSV(d DonneesRapport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write([]string{"logement", "resident", "periode", "montant", "statut"}); err != nil {
		return nil, err
	}
	for _, l := range d.Impayes {
		if err := w.Write([]string{
			l.Logement,
			l.Resident,
			l.Periode,
			l.Montant.StringFixed(2),
			l.Statut,
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("écriture CSV: %w", err)
	}
	return buf.Bytes(), nil
}
