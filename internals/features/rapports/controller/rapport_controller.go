package controller

import (
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	"iltizem_backend/internals/features/rapports/dto"
	"iltizem_backend/internals/features/rapports/model"
	rapportService "iltizem_backend/internals/features/rapports/service"
	helper "iltizem_backend/internals/helpers"
)

var (
	rePeriodeMensuelle = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	rePeriodeAnnuelle  = regexp.MustCompile(`^\d{4}$`)
)

type RapportController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Plans    configs.PlanCatalog
}

func NewRapportController(db *gorm.DB, plans configs.PlanCatalog) *RapportController {
	return &RapportController{DB: db, Validate: validator.New(), Plans: plans}
}

/* ======================= GENERER ======================= */
// POST /api/a/rapports — collecte et exporte; regénérer écrase l'existant
func (h *RapportController) Generer(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.GenererRapportRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	if req.Type == model.RapportMensuel && !rePeriodeMensuelle.MatchString(req.Periode) {
		return helper.JsonValidationError(c, map[string][]string{"periode": {"format attendu: YYYY-MM"}})
	}
	if req.Type == model.RapportAnnuel && !rePeriodeAnnuelle.MatchString(req.Periode) {
		return helper.JsonValidationError(c, map[string][]string{"periode": {"format attendu: YYYY"}})
	}

	plan, _ := c.Locals("association_plan").(string)
	avecExcel := h.Plans.HasFeature(plan, "export_excel")

	rapport, err := rapportService.GenererRapport(h.DB, assocID, req.Type, req.Periode, &userID, avecExcel)
	if err != nil {
		log.Println("[ERROR] génération rapport:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la génération du rapport")
	}
	return helper.JsonCreated(c, "Rapport généré", dto.FromModel(*rapport))
}

/* ======================= LIST ======================= */
// GET /api/a/rapports?type=
func (h *RapportController) List(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&model.RapportModel{}).Where("rapport_association_id = ?", assocID)
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		tx = tx.Where("rapport_type = ?", t)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var rows []model.RapportModel
	if err := tx.Order("rapport_periode DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonList(c, "OK", dto.FromModels(rows), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ======================= DETAIL ======================= */
// GET /api/a/rapports/:id
func (h *RapportController) GetByID(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	var m model.RapportModel
	if err := h.DB.First(&m, "rapport_id = ? AND rapport_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Rapport non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", dto.FromModel(m))
}

/* ======================= TELECHARGER ======================= */
// GET /api/a/rapports/:id/telecharger?format=pdf|excel|csv
func (h *RapportController) Telecharger(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	var m model.RapportModel
	if err := h.DB.First(&m, "rapport_id = ? AND rapport_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Rapport non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var chemin *string
	switch c.Query("format", "pdf") {
	case "pdf":
		chemin = m.RapportFichierPDF
	case "csv":
		chemin = m.RapportFichierCSV
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Format inconnu")
	}
	if chemin == nil {
		return fiber.NewError(fiber.StatusNotFound, "Fichier non disponible pour ce rapport")
	}
	return c.Download(*chemin)
}

/* ======================= EXCEL ======================= */
// GET /api/a/rapports/:id/excel — monté derrière RequireFeature(export_excel)
func (h *RapportController) TelechargerExcel(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	var m model.RapportModel
	if err := h.DB.First(&m, "rapport_id = ? AND rapport_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Rapport non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if m.RapportFichierExcel == nil {
		return fiber.NewError(fiber.StatusNotFound, "Export Excel non généré pour ce rapport")
	}
	return c.Download(*m.RapportFichierExcel)
}
