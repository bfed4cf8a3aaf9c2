package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	assocModel "iltizem_backend/internals/features/associations/associations/model"
	cotisationService "iltizem_backend/internals/features/cotisations/service"
	"iltizem_backend/internals/features/notifications/model"
)

// délai de grâce avant relance, en jours après l'échéance
const GraceRappelJours = 7

const (
	sujetRappelDefaut = "Rappel de cotisation - {{.Association}}"
	corpsRappelDefaut = `Bonjour {{.ResidentNom}},

La cotisation "{{.TypeCotisation}}" de la période {{.Periode}} pour le logement {{.Logement}} reste impayée.

Montant dû : {{.Montant}} DA
Échéance   : {{.Echeance.Format "02/01/2006"}}

Merci de régulariser votre situation auprès de votre association.

{{.Association}}`
	corpsRappelSMSDefaut = "{{.Association}}: cotisation {{.Periode}} de {{.Montant}} DA impayée pour le logement {{.Logement}}. Merci de régulariser."
)

// ResultatRappels résume une tournée d'envoi.
type ResultatRappels struct {
	Candidats int `json:"candidats"`
	Envoyes   int `json:"envoyes"`
	Echecs    int `json:"echecs"`
}

// EnvoyerRappels relance par email (et SMS selon le plan) tous les résidents
// dont une cotisation est impayée depuis plus de GraceRappelJours jours.
// Appelée chaque matin par le scheduler; rejouable à la main par association.
func EnvoyerRappels(db *gorm.DB, mailer Mailer, sms SMSSender, plans configs.PlanCatalog, asOf time.Time, associationID *uuid.UUID) (*ResultatRappels, error) {
	contextes, err := cotisationService.ChargerContextesImpayes(db, asOf, GraceRappelJours, associationID)
	if err != nil {
		return nil, err
	}

	res := &ResultatRappels{Candidats: len(contextes)}
	if len(contextes) == 0 {
		return res, nil
	}

	plansParAssoc, err := chargerPlans(db)
	if err != nil {
		return nil, err
	}

	for _, ctx := range contextes {
		cotisationID := ctx.CotisationID

		// un seul rappel par cotisation et par jour
		if dejaRelanceAujourdhui(db, cotisationID, asOf) {
			continue
		}

		sujetTpl, corpsTpl := resoudreTemplate(db, ctx.AssociationID, model.CodeRappelImpaye, model.CanalEmail)
		sujet, errS := RendreTemplate(sujetTpl, ctx)
		corps, errC := RendreTemplate(corpsTpl, ctx)
		if errS != nil || errC != nil {
			log.Printf("[RAPPELS ERROR] rendu gabarit cotisation %s: %v %v", cotisationID, errS, errC)
			res.Echecs++
			continue
		}

		ok := Dispatcher(db, mailer, sms, Envoi{
			AssociationID: &ctx.AssociationID,
			UserID:        ctx.ResidentID,
			CotisationID:  &cotisationID,
			Code:          model.CodeRappelImpaye,
			Canal:         model.CanalEmail,
			Destinataire:  ctx.ResidentEmail,
			Sujet:         sujet,
			Corps:         corps,
		})
		if ok {
			res.Envoyes++
		} else {
			res.Echecs++
		}

		// SMS en plus pour les plans qui l'incluent
		if ctx.ResidentTelephone != nil && plans.HasFeature(plansParAssoc[ctx.AssociationID], "sms") {
			_, corpsSMSTpl := resoudreTemplate(db, ctx.AssociationID, model.CodeRappelImpaye, model.CanalSMS)
			corpsSMS, err := RendreTemplate(corpsSMSTpl, ctx)
			if err != nil {
				log.Printf("[RAPPELS ERROR] rendu gabarit SMS cotisation %s: %v", cotisationID, err)
				continue
			}
			if Dispatcher(db, mailer, sms, Envoi{
				AssociationID: &ctx.AssociationID,
				UserID:        ctx.ResidentID,
				CotisationID:  &cotisationID,
				Code:          model.CodeRappelImpaye,
				Canal:         model.CanalSMS,
				Destinataire:  *ctx.ResidentTelephone,
				Corps:         corpsSMS,
			}) {
				res.Envoyes++
			} else {
				res.Echecs++
			}
		}
	}

	if res.Envoyes > 0 || res.Echecs > 0 {
		log.Printf("[RAPPELS] %d envoyés, %d échecs (%d candidats)", res.Envoyes, res.Echecs, res.Candidats)
	}
	return res, nil
}

// resoudreTemplate: gabarit de l'association, sinon gabarit global en base,
// sinon gabarit embarqué.
func resoudreTemplate(db *gorm.DB, associationID uuid.UUID, code, canal string) (sujet, corps string) {
	var tpl model.NotificationTemplate
	err := db.Where("template_association_id = ? AND template_code = ? AND template_canal = ? AND template_actif = ?",
		associationID, code, canal, true).
		First(&tpl).Error
	if err != nil {
		err = db.Where("template_association_id IS NULL AND template_code = ? AND template_canal = ? AND template_actif = ?",
			code, canal, true).
			First(&tpl).Error
	}
	if err == nil {
		return tpl.TemplateSujet, tpl.TemplateCorps
	}

	if canal == model.CanalSMS {
		return "", corpsRappelSMSDefaut
	}
	return sujetRappelDefaut, corpsRappelDefaut
}

func dejaRelanceAujourdhui(db *gorm.DB, cotisationID uuid.UUID, asOf time.Time) bool {
	debutJour := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	var count int64
	db.Model(&model.NotificationLog{}).
		Where("log_cotisation_id = ? AND log_code = ? AND log_created_at >= ?",
			cotisationID, model.CodeRappelImpaye, debutJour).
		Count(&count)
	return count > 0
}

func chargerPlans(db *gorm.DB) (map[uuid.UUID]string, error) {
	var rows []assocModel.AssociationModel
	if err := db.Select("association_id", "association_plan").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(rows))
	for _, a := range rows {
		out[a.AssociationID] = a.AssociationPlan
	}
	return out, nil
}
