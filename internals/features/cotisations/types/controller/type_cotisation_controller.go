package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	cotisationModel "iltizem_backend/internals/features/cotisations/cotisations/model"
	"iltizem_backend/internals/features/cotisations/types/dto"
	"iltizem_backend/internals/features/cotisations/types/model"
	helper "iltizem_backend/internals/helpers"
)

type TypeCotisationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTypeCotisationController(db *gorm.DB) *TypeCotisationController {
	return &TypeCotisationController{DB: db, Validate: validator.New()}
}

/* ======================= CREATE ======================= */
// POST /api/a/types-cotisations
func (h *TypeCotisationController) Create(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.CreateTypeCotisationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	if req.Montant.IsNegative() || req.Montant.IsZero() {
		return helper.JsonValidationError(c, map[string][]string{"montant": {"le montant doit être strictement positif"}})
	}

	m := req.ToModel(assocID)
	if err := h.DB.Create(m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return fiber.NewError(fiber.StatusConflict, "Un type de cotisation avec ce nom existe déjà")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la création du type de cotisation")
	}
	return helper.JsonCreated(c, "Type de cotisation créé", dto.FromModel(*m))
}

/* ======================= LIST ======================= */
// GET /api/a/types-cotisations?actif=&q=
func (h *TypeCotisationController) List(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&model.TypeCotisationModel{}).
		Where("type_cotisation_association_id = ?", assocID)
	if actif := c.Query("actif"); actif != "" {
		tx = tx.Where("type_cotisation_actif = ?", actif == "true" || actif == "1")
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		tx = tx.Where("type_cotisation_nom ILIKE ?", "%"+q+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var rows []model.TypeCotisationModel
	if err := tx.Order("type_cotisation_created_at DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonList(c, "OK", dto.FromModels(rows), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ======================= DETAIL ======================= */
// GET /api/a/types-cotisations/:id
func (h *TypeCotisationController) GetByID(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	var m model.TypeCotisationModel
	if err := h.DB.First(&m, "type_cotisation_id = ? AND type_cotisation_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Type de cotisation non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", dto.FromModel(m))
}

/* ======================= UPDATE ======================= */
// PATCH /api/a/types-cotisations/:id — ne touche pas les cotisations déjà générées
func (h *TypeCotisationController) Update(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}

	var req dto.UpdateTypeCotisationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	if req.Montant != nil && (req.Montant.IsNegative() || req.Montant.IsZero()) {
		return helper.JsonValidationError(c, map[string][]string{"montant": {"le montant doit être strictement positif"}})
	}

	var m model.TypeCotisationModel
	if err := h.DB.First(&m, "type_cotisation_id = ? AND type_cotisation_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Type de cotisation non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	req.ApplyTo(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return fiber.NewError(fiber.StatusConflict, "Un type de cotisation avec ce nom existe déjà")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la mise à jour")
	}
	return helper.JsonUpdated(c, "Type de cotisation mis à jour", dto.FromModel(m))
}

/* ======================= DELETE ======================= */
// DELETE /api/a/types-cotisations/:id — refusé si des cotisations y sont rattachées
func (h *TypeCotisationController) Delete(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}

	var count int64
	if err := h.DB.Model(&cotisationModel.CotisationModel{}).
		Where("cotisation_type_id = ?", id).
		Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "Des cotisations sont rattachées à ce type, désactivez-le plutôt")
	}

	res := h.DB.Where("type_cotisation_id = ? AND type_cotisation_association_id = ?", id, assocID).
		Delete(&model.TypeCotisationModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Type de cotisation non trouvé")
	}
	return helper.JsonDeleted(c, "Type de cotisation supprimé", fiber.Map{"type_cotisation_id": id})
}
