package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"iltizem_backend/internals/features/cotisations/cotisations/model"
	typeModel "iltizem_backend/internals/features/cotisations/types/model"
)

func TestEvaluerStatut(t *testing.T) {
	echeance := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	avant := echeance.AddDate(0, 0, -1)
	apres := echeance.AddDate(0, 0, 1)

	cas := []struct {
		nom     string
		statut  string
		asOf    time.Time
		attendu string
	}{
		{"due avant échéance", model.StatutDue, avant, model.StatutDue},
		{"due le jour de l'échéance", model.StatutDue, echeance, model.StatutDue},
		{"due après échéance", model.StatutDue, apres, model.StatutRetard},
		{"retard reste retard", model.StatutRetard, apres, model.StatutRetard},
		// les statuts terminaux ne bougent jamais, même dépassés
		{"payee figée", model.StatutPayee, apres, model.StatutPayee},
		{"annulee figée", model.StatutAnnulee, apres, model.StatutAnnulee},
	}
	for _, c := range cas {
		if got := EvaluerStatut(c.statut, echeance, c.asOf); got != c.attendu {
			t.Fatalf("%s: attendu %s, obtenu %s", c.nom, c.attendu, got)
		}
	}
}

func TestSweepRetards(t *testing.T) {
	db := setupCotisationTestDB(t)
	assoc := seedAssociation(t, db, "Résidence Les Oliviers")
	lg := seedLogement(t, db, assoc.AssociationID, "A1", nil)
	tc := seedType(t, db, assoc.AssociationID, "Charges communes", typeModel.PeriodiciteMensuelle, 2000)

	asOf := time.Date(2025, time.June, 15, 1, 0, 0, 0, time.UTC)
	depassee := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)

	seme := func(periode, statut string, echeance time.Time) model.CotisationModel {
		c := model.CotisationModel{
			CotisationAssociationID: assoc.AssociationID,
			CotisationLogementID:    lg.LogementID,
			CotisationTypeID:        tc.TypeCotisationID,
			CotisationPeriode:       periode,
			CotisationMontant:       decimal.NewFromInt(2000),
			CotisationStatut:        statut,
			CotisationDateEcheance:  echeance,
		}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("create cotisation %s: %v", periode, err)
		}
		return c
	}

	enRetard := seme("2025-05", model.StatutDue, depassee)
	aJour := seme("2025-06", model.StatutDue, future)
	payee := seme("2025-04", model.StatutPayee, depassee)

	n, err := SweepRetards(db, asOf)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("attendu 1 bascule, obtenu %d", n)
	}

	verif := func(id interface{}, attendu string) {
		var c model.CotisationModel
		if err := db.First(&c, "cotisation_id = ?", id).Error; err != nil {
			t.Fatalf("lecture: %v", err)
		}
		if c.CotisationStatut != attendu {
			t.Fatalf("statut attendu %s, obtenu %s", attendu, c.CotisationStatut)
		}
	}
	verif(enRetard.CotisationID, model.StatutRetard)
	verif(aJour.CotisationID, model.StatutDue)
	verif(payee.CotisationID, model.StatutPayee)

	// rejouable sans effet
	n, err = SweepRetards(db, asOf)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if n != 0 {
		t.Fatalf("second sweep: attendu 0 bascule, obtenu %d", n)
	}
}
