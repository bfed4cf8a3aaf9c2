package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	assocModel "iltizem_backend/internals/features/associations/associations/model"
	authService "iltizem_backend/internals/features/users/auth/service"
	userDTO "iltizem_backend/internals/features/users/user/dto"
	userModel "iltizem_backend/internals/features/users/user/model"
	helper "iltizem_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validate: validator.New()}
}

/* ======================= REGISTER ======================= */
// POST /api/auth/register — crée un compte résident
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req userDTO.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	req.Role = userModel.RoleResident // l'inscription publique ne crée que des résidents
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	if req.Telephone != nil && !helper.IsValidTelephone(*req.Telephone) {
		return helper.JsonValidationError(c, map[string][]string{"telephone": {"format téléphone invalide"}})
	}

	m := req.ToModel()
	m.SetDefaultValues()

	hash, err := authService.HashPassword(m.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec du hachage du mot de passe")
	}
	m.Password = hash

	if err := h.DB.Create(m).Error; err != nil {
		if helper.IsDuplicateErr(err) {
			return fiber.NewError(fiber.StatusConflict, "Un compte existe déjà avec cet email")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de l'inscription")
	}

	return helper.JsonCreated(c, "Compte créé", userDTO.FromModel(*m))
}

/* ======================= LOGIN ======================= */
// POST /api/auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	var user userModel.UserModel
	if err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Email ou mot de passe incorrect")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "Votre compte a été désactivé")
	}
	if err := authService.CheckPasswordHash(user.Password, req.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Email ou mot de passe incorrect")
	}

	// Scope association pour les admins, résolu une fois ici
	var assocID *uuid.UUID
	if user.Role == userModel.RoleAdminAssociation {
		var assoc assocModel.AssociationModel
		if err := h.DB.Where("association_admin_id = ? AND association_actif = ?", user.ID, true).
			First(&assoc).Error; err == nil {
			assocID = &assoc.AssociationID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
	}

	access, err := authService.CreateAccessToken(user, assocID)
	if err != nil {
		log.Println("[ERROR] création access token:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la connexion")
	}
	refresh, err := authService.CreateRefreshToken(h.DB, user.ID, c.Get("User-Agent"), c.IP())
	if err != nil {
		log.Println("[ERROR] création refresh token:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la connexion")
	}

	return helper.JsonOK(c, "Connexion réussie", fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          userDTO.FromModel(user),
	})
}

/* ======================= REFRESH ======================= */
// POST /api/auth/refresh
func (h *AuthController) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	userID, err := authService.ConsumeRefreshToken(h.DB, req.RefreshToken)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var user userModel.UserModel
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Utilisateur non trouvé")
	}
	if !user.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "Votre compte a été désactivé")
	}

	var assocID *uuid.UUID
	if user.Role == userModel.RoleAdminAssociation {
		var assoc assocModel.AssociationModel
		if err := h.DB.Where("association_admin_id = ? AND association_actif = ?", user.ID, true).
			First(&assoc).Error; err == nil {
			assocID = &assoc.AssociationID
		}
	}

	access, err := authService.CreateAccessToken(user, assocID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec du renouvellement")
	}
	refresh, err := authService.CreateRefreshToken(h.DB, user.ID, c.Get("User-Agent"), c.IP())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec du renouvellement")
	}

	return helper.JsonOK(c, "Token renouvelé", fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

/* ======================= LOGOUT ======================= */
// POST /api/auth/logout
func (h *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return fiber.NewError(fiber.StatusBadRequest, "Token manquant")
	}
	tokenString := strings.TrimSpace(parts[1])

	// exp du token pour borner la durée de vie en blacklist
	expiredAt := time.Now().Add(authService.AccessTokenTTL)
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	}); err == nil {
		if expFloat, ok := claims["exp"].(float64); ok {
			expiredAt = time.Unix(int64(expFloat), 0)
		}
	}

	if err := authService.BlacklistToken(h.DB, tokenString, expiredAt); err != nil && !helper.IsDuplicateErr(err) {
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la déconnexion")
	}
	return helper.JsonOK(c, "Déconnexion réussie", nil)
}

/* ======================= ME ======================= */
// GET /api/u/me
func (h *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var user userModel.UserModel
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Utilisateur non trouvé")
	}
	return helper.JsonOK(c, "OK", userDTO.FromModel(user))
}
