package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	typeModel "iltizem_backend/internals/features/cotisations/types/model"
)

// Formats de période:
//   mensuelle     -> 2025-01
//   trimestrielle -> 2025-T1
//   semestrielle  -> 2025-S1
//   annuelle      -> 2025
var (
	reMensuelle     = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[0-2])$`)
	reTrimestrielle = regexp.MustCompile(`^(\d{4})-T([1-4])$`)
	reSemestrielle  = regexp.MustCompile(`^(\d{4})-S([1-2])$`)
	reAnnuelle      = regexp.MustCompile(`^(\d{4})$`)
)

// PeriodeCourante renvoie le libellé de la période contenant ref.
func PeriodeCourante(periodicite string, ref time.Time) (string, error) {
	annee, mois := ref.Year(), int(ref.Month())
	switch periodicite {
	case typeModel.PeriodiciteMensuelle:
		return fmt.Sprintf("%04d-%02d", annee, mois), nil
	case typeModel.PeriodiciteTrimestrielle:
		return fmt.Sprintf("%04d-T%d", annee, (mois-1)/3+1), nil
	case typeModel.PeriodiciteSemestrielle:
		return fmt.Sprintf("%04d-S%d", annee, (mois-1)/6+1), nil
	case typeModel.PeriodiciteAnnuelle:
		return fmt.Sprintf("%04d", annee), nil
	default:
		return "", fmt.Errorf("périodicité inconnue: %s", periodicite)
	}
}

// ProchainePeriode renvoie la période qui suit celle contenant ref.
// La génération planifiée du 25 produit les cotisations de la période à venir.
func ProchainePeriode(periodicite string, ref time.Time) (string, error) {
	var saut time.Time
	annee, mois := ref.Year(), int(ref.Month())
	switch periodicite {
	case typeModel.PeriodiciteMensuelle:
		saut = time.Date(annee, time.Month(mois), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	case typeModel.PeriodiciteTrimestrielle:
		debutTrimestre := ((mois-1)/3)*3 + 1
		saut = time.Date(annee, time.Month(debutTrimestre), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 3, 0)
	case typeModel.PeriodiciteSemestrielle:
		debutSemestre := ((mois-1)/6)*6 + 1
		saut = time.Date(annee, time.Month(debutSemestre), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 6, 0)
	case typeModel.PeriodiciteAnnuelle:
		saut = time.Date(annee+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return "", fmt.Errorf("périodicité inconnue: %s", periodicite)
	}
	return PeriodeCourante(periodicite, saut)
}

// ValiderPeriode vérifie qu'un libellé correspond bien à la périodicité.
func ValiderPeriode(periodicite, periode string) error {
	var re *regexp.Regexp
	switch periodicite {
	case typeModel.PeriodiciteMensuelle:
		re = reMensuelle
	case typeModel.PeriodiciteTrimestrielle:
		re = reTrimestrielle
	case typeModel.PeriodiciteSemestrielle:
		re = reSemestrielle
	case typeModel.PeriodiciteAnnuelle:
		re = reAnnuelle
	default:
		return fmt.Errorf("périodicité inconnue: %s", periodicite)
	}
	if !re.MatchString(periode) {
		return fmt.Errorf("période %q invalide pour une périodicité %s", periode, periodicite)
	}
	return nil
}

// DebutPeriode renvoie le premier jour de la période.
func DebutPeriode(periodicite, periode string) (time.Time, error) {
	if err := ValiderPeriode(periodicite, periode); err != nil {
		return time.Time{}, err
	}
	switch periodicite {
	case typeModel.PeriodiciteMensuelle:
		parts := strings.SplitN(periode, "-", 2)
		annee, _ := strconv.Atoi(parts[0])
		mois, _ := strconv.Atoi(parts[1])
		return time.Date(annee, time.Month(mois), 1, 0, 0, 0, 0, time.UTC), nil
	case typeModel.PeriodiciteTrimestrielle:
		m := reTrimestrielle.FindStringSubmatch(periode)
		annee, _ := strconv.Atoi(m[1])
		trimestre, _ := strconv.Atoi(m[2])
		return time.Date(annee, time.Month((trimestre-1)*3+1), 1, 0, 0, 0, 0, time.UTC), nil
	case typeModel.PeriodiciteSemestrielle:
		m := reSemestrielle.FindStringSubmatch(periode)
		annee, _ := strconv.Atoi(m[1])
		semestre, _ := strconv.Atoi(m[2])
		return time.Date(annee, time.Month((semestre-1)*6+1), 1, 0, 0, 0, 0, time.UTC), nil
	default: // annuelle
		annee, _ := strconv.Atoi(periode)
		return time.Date(annee, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
}

// Echeance calcule la date limite de paiement: le 10 du mois qui suit
// le début de la période, quelle que soit la périodicité.
func Echeance(periodicite, periode string) (time.Time, error) {
	debut, err := DebutPeriode(periodicite, periode)
	if err != nil {
		return time.Time{}, err
	}
	suivant := debut.AddDate(0, 1, 0)
	return time.Date(suivant.Year(), suivant.Month(), 10, 0, 0, 0, 0, time.UTC), nil
}
