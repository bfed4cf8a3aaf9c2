package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	cotisationService "iltizem_backend/internals/features/cotisations/service"
)

func contexteExemple() cotisationService.ContexteNotification {
	return cotisationService.ContexteNotification{
		Association:    "Résidence Essalem",
		Logement:       "A12",
		TypeCotisation: "Charges communes",
		Periode:        "2025-05",
		Montant:        decimal.NewFromInt(2000),
		Echeance:       time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		Statut:         "retard",
		ResidentNom:    "Karim Benali",
		ResidentEmail:  "karim@example.com",
	}
}

func TestRendreTemplate(t *testing.T) {
	out, err := RendreTemplate("Rappel {{.Periode}} pour {{.ResidentNom}} ({{.Montant}} DA)", contexteExemple())
	if err != nil {
		t.Fatalf("rendu: %v", err)
	}
	if out != "Rappel 2025-05 pour Karim Benali (2000 DA)" {
		t.Fatalf("rendu inattendu: %q", out)
	}
}

func TestRendreTemplateChampInconnu(t *testing.T) {
	if _, err := RendreTemplate("Bonjour {{.ChampQuiNexistePas}}", contexteExemple()); err == nil {
		t.Fatal("champ inconnu accepté")
	}
}

func TestRendreTemplateSyntaxeInvalide(t *testing.T) {
	if _, err := RendreTemplate("Bonjour {{.Periode", contexteExemple()); err == nil {
		t.Fatal("syntaxe invalide acceptée")
	}
}

func TestGabaritsEmbarquesValides(t *testing.T) {
	// les gabarits par défaut doivent toujours se rendre sans erreur
	for _, tpl := range []string{sujetRappelDefaut, corpsRappelDefaut, corpsRappelSMSDefaut} {
		out, err := RendreTemplate(tpl, contexteExemple())
		if err != nil {
			t.Fatalf("gabarit embarqué invalide: %v", err)
		}
		if !strings.Contains(out, "Résidence Essalem") {
			t.Fatalf("le nom de l'association manque dans le rendu: %q", out)
		}
	}
}
