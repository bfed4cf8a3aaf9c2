package service

import "testing"

func TestPrefixeRecu(t *testing.T) {
	cas := []struct{ nom, attendu string }{
		{"Les Pins", "LES"},
		{"Résidence Essalem", "RSI"},
		{"Cité El Bahdja", "CIT"},
		{"Résidence Les Palmiers Dorés", "RES"},
		{"association sans majuscules", "ASS"},
		{"AB", "AB"},
		{"123 456", "REC"},
		{"", "REC"},
	}
	for _, c := range cas {
		if got := PrefixeRecu(c.nom); got != c.attendu {
			t.Fatalf("%q: attendu %s, obtenu %s", c.nom, c.attendu, got)
		}
	}
}

func TestFormatNumeroRecu(t *testing.T) {
	if got := FormatNumeroRecu("RE", 2025, 42); got != "RE-2025-0042" {
		t.Fatalf("attendu RE-2025-0042, obtenu %s", got)
	}
	if got := FormatNumeroRecu("REC", 2026, 1); got != "REC-2026-0001" {
		t.Fatalf("attendu REC-2026-0001, obtenu %s", got)
	}
}
