package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	"iltizem_backend/internals/features/associations/associations/dto"
	"iltizem_backend/internals/features/associations/associations/model"
	userModel "iltizem_backend/internals/features/users/user/model"
	helper "iltizem_backend/internals/helpers"
)

type AssociationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Plans    configs.PlanCatalog
}

func NewAssociationController(db *gorm.DB, plans configs.PlanCatalog) *AssociationController {
	return &AssociationController{DB: db, Validate: validator.New(), Plans: plans}
}

/* ======================= CREATE ======================= */
// POST /api/o/associations — réservé au super admin
func (h *AssociationController) Create(c *fiber.Ctx) error {
	var req dto.CreateAssociationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	m := req.ToModel()
	if _, ok := h.Plans[m.AssociationPlan]; !ok {
		return helper.JsonValidationError(c, map[string][]string{"plan": {"plan inconnu"}})
	}

	if m.AssociationAdminID != nil {
		if err := h.ensureAdminAssignable(*m.AssociationAdminID, nil); err != nil {
			return err
		}
	}

	if err := h.DB.Create(m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la création de l'association")
	}
	return helper.JsonCreated(c, "Association créée", dto.FromModel(*m))
}

/* ======================= LIST ======================= */
// GET /api/o/associations?plan=&actif=&q=
func (h *AssociationController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&model.AssociationModel{})
	if plan := strings.TrimSpace(c.Query("plan")); plan != "" {
		tx = tx.Where("association_plan = ?", plan)
	}
	if actif := c.Query("actif"); actif != "" {
		tx = tx.Where("association_actif = ?", actif == "true" || actif == "1")
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("association_nom ILIKE ?", "%"+q+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var rows []model.AssociationModel
	if err := tx.Order("association_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	return helper.JsonList(c, "OK", dto.FromModels(rows), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ======================= DETAIL ======================= */
// GET /api/o/associations/:id
func (h *AssociationController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	var m model.AssociationModel
	if err := h.DB.First(&m, "association_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Association non trouvée")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", dto.FromModel(m))
}

/* ======================= UPDATE ======================= */
// PATCH /api/o/associations/:id
func (h *AssociationController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}

	var req dto.UpdateAssociationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	if req.Plan != nil {
		if _, ok := h.Plans[*req.Plan]; !ok {
			return helper.JsonValidationError(c, map[string][]string{"plan": {"plan inconnu"}})
		}
	}

	var m model.AssociationModel
	if err := h.DB.First(&m, "association_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Association non trouvée")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	if req.AdminID != nil {
		adminID, perr := uuid.Parse(*req.AdminID)
		if perr != nil {
			return helper.JsonValidationError(c, map[string][]string{"admin_id": {"uuid invalide"}})
		}
		if err := h.ensureAdminAssignable(adminID, &m.AssociationID); err != nil {
			return err
		}
	}

	req.ApplyTo(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la mise à jour")
	}
	return helper.JsonUpdated(c, "Association mise à jour", dto.FromModel(m))
}

/* ======================= DEACTIVATE ======================= */
// DELETE /api/o/associations/:id — désactivation, pas de suppression physique
func (h *AssociationController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	res := h.DB.Model(&model.AssociationModel{}).
		Where("association_id = ?", id).
		Update("association_actif", false)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Association non trouvée")
	}
	return helper.JsonDeleted(c, "Association désactivée", fiber.Map{"association_id": id})
}

/* ======================= MON ASSOCIATION ======================= */
// GET /api/a/association — fiche vue par l'admin de l'association
func (h *AssociationController) GetMine(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	var m model.AssociationModel
	if err := h.DB.First(&m, "association_id = ?", assocID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Association non trouvée")
	}
	return helper.JsonOK(c, "OK", dto.FromModel(m))
}

// ensureAdminAssignable vérifie que l'utilisateur ciblé est bien un admin
// d'association et qu'il ne gère pas déjà une autre association.
func (h *AssociationController) ensureAdminAssignable(adminID uuid.UUID, excludeAssoc *uuid.UUID) error {
	var user userModel.UserModel
	if err := h.DB.Select("id", "role").First(&user, "id = ?", adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Admin non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if user.Role != userModel.RoleAdminAssociation {
		return fiber.NewError(fiber.StatusConflict, "L'utilisateur ciblé n'a pas le rôle admin_association")
	}

	tx := h.DB.Model(&model.AssociationModel{}).Where("association_admin_id = ?", adminID)
	if excludeAssoc != nil {
		tx = tx.Where("association_id <> ?", *excludeAssoc)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "Cet admin gère déjà une autre association")
	}
	return nil
}
