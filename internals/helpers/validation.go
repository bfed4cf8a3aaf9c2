package helper

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var telephoneRe = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// ValidationErrorsToMap convertit les erreurs validator.v10 en map champ -> messages.
func ValidationErrorsToMap(err error) map[string][]string {
	out := map[string][]string{}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_global"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "champ obligatoire"
		case "email":
			msg = "format email invalide"
		case "min":
			msg = "minimum " + fe.Param()
		case "max":
			msg = "maximum " + fe.Param()
		case "oneof":
			msg = "doit être parmi: " + fe.Param()
		case "gt", "gte":
			msg = "valeur trop petite"
		default:
			msg = "format invalide"
		}
		out[field] = append(out[field], msg)
	}
	return out
}

// IsValidTelephone: format téléphone simple (8 à 15 chiffres, + optionnel).
func IsValidTelephone(t string) bool {
	return telephoneRe.MatchString(t)
}

// IsDuplicateErr détecte une violation d'unicité remontée par le driver.
func IsDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
