package service

import (
	"testing"
	"time"

	typeModel "iltizem_backend/internals/features/cotisations/types/model"
)

func TestPeriodeCourante(t *testing.T) {
	ref := time.Date(2025, time.May, 15, 10, 0, 0, 0, time.UTC)

	cas := []struct {
		periodicite string
		attendu     string
	}{
		{typeModel.PeriodiciteMensuelle, "2025-05"},
		{typeModel.PeriodiciteTrimestrielle, "2025-T2"},
		{typeModel.PeriodiciteSemestrielle, "2025-S1"},
		{typeModel.PeriodiciteAnnuelle, "2025"},
	}
	for _, c := range cas {
		got, err := PeriodeCourante(c.periodicite, ref)
		if err != nil {
			t.Fatalf("%s: %v", c.periodicite, err)
		}
		if got != c.attendu {
			t.Fatalf("%s: attendu %s, obtenu %s", c.periodicite, c.attendu, got)
		}
	}

	if _, err := PeriodeCourante("hebdomadaire", ref); err == nil {
		t.Fatal("périodicité inconnue acceptée")
	}
}

func TestProchainePeriode(t *testing.T) {
	cas := []struct {
		periodicite string
		ref         time.Time
		attendu     string
	}{
		{typeModel.PeriodiciteMensuelle, time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC), "2025-06"},
		{typeModel.PeriodiciteMensuelle, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), "2026-01"},
		{typeModel.PeriodiciteTrimestrielle, time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC), "2025-T3"},
		{typeModel.PeriodiciteTrimestrielle, time.Date(2025, time.November, 25, 0, 0, 0, 0, time.UTC), "2026-T1"},
		{typeModel.PeriodiciteSemestrielle, time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC), "2025-S2"},
		{typeModel.PeriodiciteSemestrielle, time.Date(2025, time.September, 25, 0, 0, 0, 0, time.UTC), "2026-S1"},
		{typeModel.PeriodiciteAnnuelle, time.Date(2025, time.June, 25, 0, 0, 0, 0, time.UTC), "2026"},
	}
	for _, c := range cas {
		got, err := ProchainePeriode(c.periodicite, c.ref)
		if err != nil {
			t.Fatalf("%s %s: %v", c.periodicite, c.ref, err)
		}
		if got != c.attendu {
			t.Fatalf("%s %s: attendu %s, obtenu %s", c.periodicite, c.ref.Format("2006-01-02"), c.attendu, got)
		}
	}
}

func TestValiderPeriode(t *testing.T) {
	valides := []struct{ periodicite, periode string }{
		{typeModel.PeriodiciteMensuelle, "2025-01"},
		{typeModel.PeriodiciteMensuelle, "2025-12"},
		{typeModel.PeriodiciteTrimestrielle, "2025-T4"},
		{typeModel.PeriodiciteSemestrielle, "2025-S2"},
		{typeModel.PeriodiciteAnnuelle, "2025"},
	}
	for _, c := range valides {
		if err := ValiderPeriode(c.periodicite, c.periode); err != nil {
			t.Fatalf("%s / %s rejetée: %v", c.periodicite, c.periode, err)
		}
	}

	invalides := []struct{ periodicite, periode string }{
		{typeModel.PeriodiciteMensuelle, "2025-13"},
		{typeModel.PeriodiciteMensuelle, "2025-1"},
		{typeModel.PeriodiciteMensuelle, "2025"},
		{typeModel.PeriodiciteTrimestrielle, "2025-T5"},
		{typeModel.PeriodiciteTrimestrielle, "2025-01"},
		{typeModel.PeriodiciteSemestrielle, "2025-S3"},
		{typeModel.PeriodiciteAnnuelle, "2025-01"},
	}
	for _, c := range invalides {
		if err := ValiderPeriode(c.periodicite, c.periode); err == nil {
			t.Fatalf("%s / %s acceptée à tort", c.periodicite, c.periode)
		}
	}
}

func TestEcheance(t *testing.T) {
	cas := []struct {
		periodicite string
		periode     string
		attendu     time.Time
	}{
		// toujours le 10 du mois qui suit le début de la période
		{typeModel.PeriodiciteMensuelle, "2025-01", time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)},
		{typeModel.PeriodiciteMensuelle, "2025-12", time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)},
		{typeModel.PeriodiciteTrimestrielle, "2025-T2", time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)},
		{typeModel.PeriodiciteSemestrielle, "2025-S2", time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)},
		{typeModel.PeriodiciteAnnuelle, "2025", time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cas {
		got, err := Echeance(c.periodicite, c.periode)
		if err != nil {
			t.Fatalf("%s / %s: %v", c.periodicite, c.periode, err)
		}
		if !got.Equal(c.attendu) {
			t.Fatalf("%s / %s: attendu %s, obtenu %s", c.periodicite, c.periode, c.attendu, got)
		}
	}

	if _, err := Echeance(typeModel.PeriodiciteMensuelle, "2025-T1"); err == nil {
		t.Fatal("période incohérente acceptée")
	}
}
