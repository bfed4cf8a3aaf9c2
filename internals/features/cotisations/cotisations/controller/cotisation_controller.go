package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/features/cotisations/cotisations/dto"
	"iltizem_backend/internals/features/cotisations/cotisations/model"
	cotisationService "iltizem_backend/internals/features/cotisations/service"
	helper "iltizem_backend/internals/helpers"
)

type CotisationController struct {
	DB       *gorm.DB
	Validate *validator.Validate

	// horloge injectable pour les tests
	Now func() time.Time
}

func NewCotisationController(db *gorm.DB) *CotisationController {
	return &CotisationController{DB: db, Validate: validator.New(), Now: time.Now}
}

/* ======================= GENERER ======================= */
// POST /api/a/cotisations/generer — déclenchement manuel, rejouable
func (h *CotisationController) Generer(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.GenererCotisationsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
		}
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	var typeID *uuid.UUID
	if req.TypeID != nil {
		id, perr := uuid.Parse(*req.TypeID)
		if perr != nil {
			return helper.JsonValidationError(c, map[string][]string{"type_id": {"uuid invalide"}})
		}
		typeID = &id
	}

	res, err := cotisationService.GenererCotisations(h.DB, assocID, typeID, strings.TrimSpace(req.Periode), h.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return helper.JsonOK(c, "Génération terminée", res)
}

/* ======================= LIST ======================= */
// GET /api/a/cotisations?statut=&periode=&logement_id=&type_id=
// Le statut renvoyé est réévalué à la lecture (une cotisation due dont
// l'échéance est passée s'affiche en retard sans attendre le sweep nocturne).
func (h *CotisationController) List(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 25, 200)
	asOf := h.Now()

	tx := h.DB.Model(&model.CotisationModel{}).Where("cotisation_association_id = ?", assocID)
	if statut := strings.TrimSpace(c.Query("statut")); statut != "" {
		if statut == model.StatutRetard {
			// inclut les dues déjà échues, pas encore balayées
			tx = tx.Where("(cotisation_statut = ? OR (cotisation_statut = ? AND cotisation_date_echeance < ?))",
				model.StatutRetard, model.StatutDue, asOf)
		} else if statut == model.StatutDue {
			tx = tx.Where("cotisation_statut = ? AND cotisation_date_echeance >= ?", model.StatutDue, asOf)
		} else {
			tx = tx.Where("cotisation_statut = ?", statut)
		}
	}
	if periode := strings.TrimSpace(c.Query("periode")); periode != "" {
		tx = tx.Where("cotisation_periode = ?", periode)
	}
	if logementID := strings.TrimSpace(c.Query("logement_id")); logementID != "" {
		if id, perr := uuid.Parse(logementID); perr == nil {
			tx = tx.Where("cotisation_logement_id = ?", id)
		}
	}
	if typeID := strings.TrimSpace(c.Query("type_id")); typeID != "" {
		if id, perr := uuid.Parse(typeID); perr == nil {
			tx = tx.Where("cotisation_type_id = ?", id)
		}
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var rows []model.CotisationModel
	if err := tx.Order("cotisation_date_echeance DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	out := make([]dto.CotisationResponse, 0, len(rows))
	for _, m := range rows {
		statut := cotisationService.EvaluerStatut(m.CotisationStatut, m.CotisationDateEcheance, asOf)
		out = append(out, dto.FromModel(m, statut))
	}
	return helper.JsonList(c, "OK", out, helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ======================= DETAIL ======================= */
// GET /api/a/cotisations/:id
func (h *CotisationController) GetByID(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	var m model.CotisationModel
	if err := h.DB.First(&m, "cotisation_id = ? AND cotisation_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Cotisation non trouvée")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	statut := cotisationService.EvaluerStatut(m.CotisationStatut, m.CotisationDateEcheance, h.Now())
	return helper.JsonOK(c, "OK", dto.FromModel(m, statut))
}

/* ======================= ANNULER ======================= */
// POST /api/a/cotisations/:id/annuler — refusé sur un statut terminal
func (h *CotisationController) Annuler(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}

	var req dto.AnnulerCotisationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	var m model.CotisationModel
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&m, "cotisation_id = ? AND cotisation_association_id = ?", id, assocID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Cotisation non trouvée")
			}
			return err
		}
		if model.EstTerminal(m.CotisationStatut) {
			return fiber.NewError(fiber.StatusConflict, "Cotisation déjà payée ou annulée")
		}

		m.CotisationStatut = model.StatutAnnulee
		m.CotisationAnnuleePar = &userID
		m.CotisationMotifAnnulation = &req.Motif
		return tx.Save(&m).Error
	})
	if txErr != nil {
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return fe
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de l'annulation")
	}
	return helper.JsonUpdated(c, "Cotisation annulée", dto.FromModel(m, m.CotisationStatut))
}

/* ======================= MES COTISATIONS ======================= */
// GET /api/u/cotisations?statut= — cotisations des logements du résident
func (h *CotisationController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 25, 200)
	asOf := h.Now()

	tx := h.DB.Model(&model.CotisationModel{}).
		Joins("JOIN logements ON logements.logement_id = cotisations.cotisation_logement_id").
		Where("logements.logement_resident_id = ?", userID)
	if periode := strings.TrimSpace(c.Query("periode")); periode != "" {
		tx = tx.Where("cotisation_periode = ?", periode)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var rows []model.CotisationModel
	if err := tx.Order("cotisation_date_echeance DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	out := make([]dto.CotisationResponse, 0, len(rows))
	for _, m := range rows {
		statut := cotisationService.EvaluerStatut(m.CotisationStatut, m.CotisationDateEcheance, asOf)
		out = append(out, dto.FromModel(m, statut))
	}
	return helper.JsonList(c, "OK", out, helper.BuildPagination(total, paging.Page, paging.PerPage))
}
