package service

import (
	"bytes"
	"text/template"
)

// RendreTemplate exécute un gabarit text/template avec le contexte donné.
// Les champs inconnus provoquent une erreur plutôt qu'un message troué.
func RendreTemplate(corps string, ctx any) (string, error) {
	tpl, err := template.New("notification").Option("missingkey=error").Parse(corps)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
