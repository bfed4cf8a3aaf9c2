package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	"iltizem_backend/internals/features/notifications/dto"
	"iltizem_backend/internals/features/notifications/model"
	notifService "iltizem_backend/internals/features/notifications/service"
	helper "iltizem_backend/internals/helpers"
)

type NotificationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Mailer   notifService.Mailer
	SMS      notifService.SMSSender
	Plans    configs.PlanCatalog
}

func NewNotificationController(db *gorm.DB, mailer notifService.Mailer, sms notifService.SMSSender, plans configs.PlanCatalog) *NotificationController {
	return &NotificationController{DB: db, Validate: validator.New(), Mailer: mailer, SMS: sms, Plans: plans}
}

/* ======================= TEMPLATES ======================= */
// GET /api/a/notifications/templates
func (h *NotificationController) ListTemplates(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	var rows []model.NotificationTemplate
	if err := h.DB.
		Where("template_association_id = ? OR template_association_id IS NULL", assocID).
		Order("template_code ASC, template_canal ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", dto.TemplatesFromModels(rows))
}

// PUT /api/a/notifications/templates — crée ou remplace le gabarit (code, canal)
func (h *NotificationController) UpsertTemplate(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.UpsertTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	// rendu à blanc pour rejeter un gabarit mal formé dès la sauvegarde
	if _, err := notifService.RendreTemplate(req.Corps, exempleContexte()); err != nil {
		return helper.JsonValidationError(c, map[string][]string{"corps": {"gabarit invalide: " + err.Error()}})
	}

	var tpl model.NotificationTemplate
	err = h.DB.Where("template_association_id = ? AND template_code = ? AND template_canal = ?",
		assocID, req.Code, req.Canal).
		First(&tpl).Error
	nouveau := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !nouveau {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	tpl.TemplateAssociationID = &assocID
	tpl.TemplateCode = req.Code
	tpl.TemplateCanal = req.Canal
	tpl.TemplateSujet = req.Sujet
	tpl.TemplateCorps = req.Corps
	if req.Actif != nil {
		tpl.TemplateActif = *req.Actif
	} else if nouveau {
		tpl.TemplateActif = true
	}

	if err := h.DB.Save(&tpl).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de l'enregistrement du gabarit")
	}
	return helper.JsonUpdated(c, "Gabarit enregistré", dto.TemplateFromModel(tpl))
}

/* ======================= LOGS ======================= */
// GET /api/a/notifications/logs?statut=&canal=
func (h *NotificationController) ListLogs(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&model.NotificationLog{}).Where("log_association_id = ?", assocID)
	if statut := strings.TrimSpace(c.Query("statut")); statut != "" {
		tx = tx.Where("log_statut = ?", statut)
	}
	if canal := strings.TrimSpace(c.Query("canal")); canal != "" {
		tx = tx.Where("log_canal = ?", canal)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var rows []model.NotificationLog
	if err := tx.Order("log_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonList(c, "OK", dto.LogsFromModels(rows), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ======================= RAPPELS ======================= */
// POST /api/a/notifications/rappels — relance manuelle pour l'association
func (h *NotificationController) DeclencherRappels(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	res, err := notifService.EnvoyerRappels(h.DB, h.Mailer, h.SMS, h.Plans, time.Now(), &assocID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de l'envoi des rappels")
	}
	return helper.JsonOK(c, "Rappels traités", res)
}

// POST /api/a/notifications/retentatives — renvoie les échecs relançables
func (h *NotificationController) RetenterEchecs(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	res, err := notifService.RetenterEchecs(h.DB, h.Mailer, h.SMS, &assocID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la relance des notifications")
	}
	return helper.JsonOK(c, "Relance traitée", res)
}

func exempleContexte() map[string]any {
	return map[string]any{
		"Association":    "Exemple",
		"Logement":       "A-01",
		"TypeCotisation": "Charges",
		"Periode":        "2025-01",
		"Montant":        "1000.00",
		"Echeance":       time.Now(),
		"ResidentNom":    "Exemple",
	}
}
