package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	"iltizem_backend/internals/features/rapports/model"
)

// GenererRapport collecte les agrégats, écrit les fichiers d'export sous
// MEDIA_ROOT/rapports/ANNEE/MM/ et upserte la ligne rapport. Regénérer un
// rapport existant remplace ses données et ses fichiers.
// avecExcel dépend du plan de l'association (export_excel).
func GenererRapport(db *gorm.DB, associationID uuid.UUID, typeRapport, periode string, generePar *uuid.UUID, avecExcel bool) (*model.RapportModel, error) {
	if typeRapport != model.RapportMensuel && typeRapport != model.RapportAnnuel {
		return nil, fmt.Errorf("type de rapport inconnu: %s", typeRapport)
	}

	donnees, err := CollecterDonnees(db, associationID, typeRapport, periode)
	if err != nil {
		return nil, err
	}

	brut, err := json.Marshal(donnees)
	if err != nil {
		return nil, err
	}

	dossier, err := dossierRapports(periode)
	if err != nil {
		return nil, err
	}
	base := fmt.Sprintf("rapport-%s-%s-%s", typeRapport, periode, associationID.String()[:8])

	cheminPDF := filepath.Join(dossier, base+".pdf")
	pdfBytes, err := GenererPDF(*donnees)
	if err != nil {
		return nil, fmt.Errorf("génération PDF: %w", err)
	}
	if err := os.WriteFile(cheminPDF, pdfBytes, 0o644); err != nil {
		return nil, err
	}

	cheminCSV := filepath.Join(dossier, base+".csv")
	csvBytes, err := GenererCSV(*donnees)
	if err != nil {
		return nil, fmt.Errorf("génération CSV: %w", err)
	}
	if err := os.WriteFile(cheminCSV, csvBytes, 0o644); err != nil {
		return nil, err
	}

	var cheminExcel *string
	if avecExcel {
		chemin := filepath.Join(dossier, base+".xlsx")
		xlsxBytes, err := GenererExcel(*donnees)
		if err != nil {
			return nil, fmt.Errorf("génération Excel: %w", err)
		}
		if err := os.WriteFile(chemin, xlsxBytes, 0o644); err != nil {
			return nil, err
		}
		cheminExcel = &chemin
	}

	var rapport model.RapportModel
	txErr := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&rapport,
			"rapport_association_id = ? AND rapport_type = ? AND rapport_periode = ?",
			associationID, typeRapport, periode).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		rapport.RapportAssociationID = associationID
		rapport.RapportType = typeRapport
		rapport.RapportPeriode = periode
		rapport.RapportDonnees = datatypes.JSON(brut)
		rapport.RapportFichierPDF = &cheminPDF
		rapport.RapportFichierCSV = &cheminCSV
		rapport.RapportFichierExcel = cheminExcel
		rapport.RapportGenerePar = generePar
		return tx.Save(&rapport).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &rapport, nil
}

// dossierRapports: MEDIA_ROOT/rapports/ANNEE/MM (ou /annuel pour YYYY).
func dossierRapports(periode string) (string, error) {
	annee, mois := periode, "annuel"
	if len(periode) >= 7 && periode[4] == '-' {
		annee, mois = periode[:4], periode[5:7]
	}

	dossier := filepath.Join(configs.MediaRoot, "rapports", annee, mois)
	if err := os.MkdirAll(dossier, 0o755); err != nil {
		return "", err
	}
	return dossier, nil
}

// NettoyerAnciensFichiers supprime les exports de plus de retentionJours.
// Les lignes rapport restent, seuls les fichiers sont purgés.
func NettoyerAnciensFichiers(retentionJours int) error {
	racine := filepath.Join(configs.MediaRoot, "rapports")
	limite := time.Now().AddDate(0, 0, -retentionJours)

	return filepath.Walk(racine, func(chemin string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !info.IsDir() && info.ModTime().Before(limite) {
			return os.Remove(chemin)
		}
		return nil
	})
}
