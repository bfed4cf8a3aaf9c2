package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	assocModel "iltizem_backend/internals/features/associations/associations/model"
	"iltizem_backend/internals/features/associations/logements/dto"
	"iltizem_backend/internals/features/associations/logements/model"
	userModel "iltizem_backend/internals/features/users/user/model"
	helper "iltizem_backend/internals/helpers"
)

type LogementController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Plans    configs.PlanCatalog
}

func NewLogementController(db *gorm.DB, plans configs.PlanCatalog) *LogementController {
	return &LogementController{DB: db, Validate: validator.New(), Plans: plans}
}

/* ======================= CREATE ======================= */
// POST /api/a/logements
func (h *LogementController) Create(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateLogementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	// plafond du plan sur le nombre de logements
	var assoc assocModel.AssociationModel
	if err := h.DB.Select("association_id", "association_plan").
		First(&assoc, "association_id = ?", assocID).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	var count int64
	if err := h.DB.Model(&model.LogementModel{}).
		Where("logement_association_id = ?", assocID).
		Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if max := h.Plans.MaxLogements(assoc.AssociationPlan); max > 0 && count >= int64(max) {
		return fiber.NewError(fiber.StatusForbidden, "Plafond de logements atteint pour votre plan")
	}

	m := req.ToModel(assocID)
	if m.LogementResidentID != nil {
		if err := h.ensureResident(*m.LogementResidentID); err != nil {
			return err
		}
	}

	if err := h.DB.Create(m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return fiber.NewError(fiber.StatusConflict, "Un logement avec ce numéro existe déjà")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la création du logement")
	}
	return helper.JsonCreated(c, "Logement créé", dto.FromModel(*m))
}

/* ======================= LIST ======================= */
// GET /api/a/logements?actif=&q=
func (h *LogementController) List(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&model.LogementModel{}).Where("logement_association_id = ?", assocID)
	if actif := c.Query("actif"); actif != "" {
		tx = tx.Where("logement_actif = ?", actif == "true" || actif == "1")
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("logement_numero ILIKE ?", "%"+q+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var rows []model.LogementModel
	if err := tx.Order("logement_numero ASC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonList(c, "OK", dto.FromModels(rows), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ======================= DETAIL ======================= */
// GET /api/a/logements/:id
func (h *LogementController) GetByID(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	var m model.LogementModel
	if err := h.DB.First(&m, "logement_id = ? AND logement_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Logement non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", dto.FromModel(m))
}

/* ======================= UPDATE ======================= */
// PATCH /api/a/logements/:id
func (h *LogementController) Update(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}

	var req dto.UpdateLogementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	var m model.LogementModel
	if err := h.DB.First(&m, "logement_id = ? AND logement_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Logement non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	if req.ResidentID != nil && !req.DetacherResident {
		residentID, perr := uuid.Parse(*req.ResidentID)
		if perr != nil {
			return helper.JsonValidationError(c, map[string][]string{"resident_id": {"uuid invalide"}})
		}
		if err := h.ensureResident(residentID); err != nil {
			return err
		}
	}

	req.ApplyTo(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return fiber.NewError(fiber.StatusConflict, "Un logement avec ce numéro existe déjà")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la mise à jour")
	}
	return helper.JsonUpdated(c, "Logement mis à jour", dto.FromModel(m))
}

/* ======================= DEACTIVATE ======================= */
// DELETE /api/a/logements/:id — les cotisations existantes sont conservées
func (h *LogementController) Deactivate(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	res := h.DB.Model(&model.LogementModel{}).
		Where("logement_id = ? AND logement_association_id = ?", id, assocID).
		Update("logement_actif", false)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Logement non trouvé")
	}
	return helper.JsonDeleted(c, "Logement désactivé", fiber.Map{"logement_id": id})
}

/* ======================= MES LOGEMENTS ======================= */
// GET /api/u/logements — logements rattachés au résident connecté
func (h *LogementController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var rows []model.LogementModel
	if err := h.DB.
		Where("logement_resident_id = ? AND logement_actif = ?", userID, true).
		Order("logement_numero ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", dto.FromModels(rows))
}

func (h *LogementController) ensureResident(residentID uuid.UUID) error {
	var user userModel.UserModel
	if err := h.DB.Select("id", "role", "is_active").First(&user, "id = ?", residentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Résident non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusConflict, "Le compte du résident est désactivé")
	}
	return nil
}
