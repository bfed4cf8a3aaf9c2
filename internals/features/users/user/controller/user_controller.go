package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	dto "iltizem_backend/internals/features/users/user/dto"
	model "iltizem_backend/internals/features/users/user/model"
	helper "iltizem_backend/internals/helpers"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validate: validator.New()}
}

/* ======================= CREATE ======================= */
// POST /api/o/users
func (h *UserController) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	if req.Telephone != nil && !helper.IsValidTelephone(*req.Telephone) {
		return helper.JsonValidationError(c, map[string][]string{"telephone": {"format téléphone invalide"}})
	}

	m := req.ToModel()
	m.SetDefaultValues()

	hash, err := bcrypt.GenerateFromPassword([]byte(m.Password), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec du hachage du mot de passe")
	}
	m.Password = string(hash)

	if err := h.DB.Create(m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return fiber.NewError(fiber.StatusConflict, "Un compte existe déjà avec cet email")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la création de l'utilisateur")
	}

	return helper.JsonCreated(c, "Utilisateur créé", dto.FromModel(*m))
}

/* ======================== LIST ======================== */
// GET /api/o/users?role=&q=&page=&per_page=
func (h *UserController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 25, 200)

	base := h.DB.Model(&model.UserModel{})
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		base = base.Where("role = ?", role)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(user_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.UserModel
	if err := base.Order("created_at DESC").Limit(paging.Limit).Offset(paging.Offset).Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonList(c, "OK", dto.FromModels(rows), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ======================== GET BY ID ======================== */
// GET /api/o/users/:id
func (h *UserController) GetByID(c *fiber.Ctx) error {
	var row model.UserModel
	if err := h.DB.First(&row, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Utilisateur non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "OK", dto.FromModel(row))
}

/* ======================== UPDATE ======================== */
// PATCH /api/o/users/:id
func (h *UserController) Update(c *fiber.Ctx) error {
	var row model.UserModel
	if err := h.DB.First(&row, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Utilisateur non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	if req.Telephone != nil && !helper.IsValidTelephone(*req.Telephone) {
		return helper.JsonValidationError(c, map[string][]string{"telephone": {"format téléphone invalide"}})
	}

	req.ApplyTo(&row)
	if err := h.DB.Save(&row).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return fiber.NewError(fiber.StatusConflict, "Email déjà utilisé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la mise à jour")
	}

	return helper.JsonUpdated(c, "Utilisateur mis à jour", dto.FromModel(row))
}

/* ======================== DEACTIVATE ======================== */
// DELETE /api/o/users/:id (désactivation, pas de suppression physique)
func (h *UserController) Deactivate(c *fiber.Ctx) error {
	res := h.DB.Model(&model.UserModel{}).
		Where("id = ?", c.Params("id")).
		Update("is_active", false)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Utilisateur non trouvé")
	}
	return helper.JsonDeleted(c, "Compte désactivé", nil)
}
