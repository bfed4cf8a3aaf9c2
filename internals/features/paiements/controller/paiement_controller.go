package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	"iltizem_backend/internals/features/paiements/dto"
	"iltizem_backend/internals/features/paiements/model"
	paiementService "iltizem_backend/internals/features/paiements/service"
	helper "iltizem_backend/internals/helpers"
)

type PaiementController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Plans    configs.PlanCatalog
}

func NewPaiementController(db *gorm.DB, plans configs.PlanCatalog) *PaiementController {
	return &PaiementController{DB: db, Validate: validator.New(), Plans: plans}
}

/* ======================= CREATE ======================= */
// POST /api/a/paiements — saisie manuelle par l'admin
func (h *PaiementController) Create(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.EnregistrerPaiementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}

	cotisationID, perr := uuid.Parse(req.CotisationID)
	if perr != nil {
		return helper.JsonValidationError(c, map[string][]string{"cotisation_id": {"uuid invalide"}})
	}

	saisie := paiementService.SaisiePaiement{
		CotisationID:  cotisationID,
		Methode:       req.Methode,
		Montant:       req.Montant,
		Reference:     req.Reference,
		Note:          req.Note,
		EnregistrePar: &userID,
	}
	if req.Date != nil {
		saisie.Date = *req.Date
	}

	res, err := paiementService.EnregistrerPaiement(h.DB, assocID, saisie)
	if err != nil {
		switch {
		case errors.Is(err, paiementService.ErrCotisationIntrouvable):
			return fiber.NewError(fiber.StatusNotFound, "Cotisation non trouvée")
		case errors.Is(err, paiementService.ErrCotisationTerminale):
			return fiber.NewError(fiber.StatusConflict, "Cotisation déjà payée ou annulée")
		case errors.Is(err, paiementService.ErrMontantInvalide):
			return helper.JsonValidationError(c, map[string][]string{"montant": {"le montant doit être strictement positif"}})
		case errors.Is(err, paiementService.ErrDateFuture):
			return helper.JsonValidationError(c, map[string][]string{"date": {"la date du paiement ne peut pas être dans le futur"}})
		case helper.IsDuplicateErr(err):
			return fiber.NewError(fiber.StatusConflict, "Un paiement existe déjà pour cette cotisation")
		default:
			log.Println("[ERROR] enregistrement paiement:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Échec de l'enregistrement du paiement")
		}
	}
	return helper.JsonCreated(c, "Paiement enregistré", dto.FromModelAvecEcart(res.Paiement, res.MontantCotisation))
}

/* ======================= LIST ======================= */
// GET /api/a/paiements?methode=&depuis=&jusqua=
func (h *PaiementController) List(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 25, 200)

	tx := h.DB.Model(&model.PaiementModel{}).Where("paiement_association_id = ?", assocID)
	if methode := strings.TrimSpace(c.Query("methode")); methode != "" {
		tx = tx.Where("paiement_methode = ?", methode)
	}
	if depuis := strings.TrimSpace(c.Query("depuis")); depuis != "" {
		if t, perr := time.Parse("2006-01-02", depuis); perr == nil {
			tx = tx.Where("paiement_date >= ?", t)
		}
	}
	if jusqua := strings.TrimSpace(c.Query("jusqua")); jusqua != "" {
		if t, perr := time.Parse("2006-01-02", jusqua); perr == nil {
			tx = tx.Where("paiement_date < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	var rows []model.PaiementModel
	if err := tx.Order("paiement_date DESC").
		Limit(paging.PerPage).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonList(c, "OK", dto.FromModels(rows), helper.BuildPagination(total, paging.Page, paging.PerPage))
}

/* ======================= DETAIL ======================= */
// GET /api/a/paiements/:id
func (h *PaiementController) GetByID(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}
	var m model.PaiementModel
	if err := h.DB.First(&m, "paiement_id = ? AND paiement_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Paiement non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", dto.FromModel(m))
}

/* ======================= RECU PDF ======================= */
// GET /api/a/paiements/:id/recu — reçu imprimable
func (h *PaiementController) TelechargerRecu(c *fiber.Ctx) error {
	assocID, err := helper.GetAssociationIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "ID invalide")
	}

	var m model.PaiementModel
	if err := h.DB.First(&m, "paiement_id = ? AND paiement_association_id = ?", id, assocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Paiement non trouvé")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}

	donnees, err := h.chargerDonneesRecu(m)
	if err != nil {
		log.Println("[ERROR] contexte reçu:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la génération du reçu")
	}

	pdfBytes, err := paiementService.GenererRecuPDF(*donnees)
	if err != nil {
		log.Println("[ERROR] génération PDF:", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Échec de la génération du reçu")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="recu-%s.pdf"`, m.PaiementNumeroRecu))
	return c.Send(pdfBytes)
}

/* ======================= PAYER EN LIGNE ======================= */
// POST /api/u/paiements/en-ligne — ouvre une session chez le prestataire
func (h *PaiementController) PayerEnLigne(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}

	var req dto.PayerEnLigneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Payload invalide")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorsToMap(err))
	}
	cotisationID, perr := uuid.Parse(req.CotisationID)
	if perr != nil {
		return helper.JsonValidationError(c, map[string][]string{"cotisation_id": {"uuid invalide"}})
	}

	// la cotisation doit appartenir à un logement du résident
	var count int64
	if err := h.DB.Table("cotisations").
		Joins("JOIN logements ON logements.logement_id = cotisations.cotisation_logement_id").
		Where("cotisations.cotisation_id = ? AND logements.logement_resident_id = ?", cotisationID, userID).
		Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if count == 0 {
		return fiber.NewError(fiber.StatusForbidden, "Cette cotisation ne vous concerne pas")
	}

	// le paiement en ligne est réservé aux associations plan gold
	var plan string
	if err := h.DB.Table("cotisations").
		Select("associations.association_plan").
		Joins("JOIN associations ON associations.association_id = cotisations.cotisation_association_id").
		Where("cotisations.cotisation_id = ?", cotisationID).
		Scan(&plan).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	if !h.Plans.HasFeature(plan, "paiement_en_ligne") {
		return fiber.NewError(fiber.StatusForbidden, "Le paiement en ligne n'est pas disponible pour votre association")
	}

	trx, err := paiementService.CreerTransactionEnLigne(h.DB, userID, cotisationID)
	if err != nil {
		switch {
		case errors.Is(err, paiementService.ErrCotisationIntrouvable):
			return fiber.NewError(fiber.StatusNotFound, "Cotisation non trouvée")
		case errors.Is(err, paiementService.ErrCotisationTerminale):
			return fiber.NewError(fiber.StatusConflict, "Cotisation déjà payée ou annulée")
		default:
			log.Println("[ERROR] session paiement en ligne:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Échec de l'initialisation du paiement")
		}
	}
	return helper.JsonCreated(c, "Session de paiement créée", dto.FromTransaction(*trx))
}

/* ======================= WEBHOOK ======================= */
// POST /api/paiements/notification — callback du prestataire, hors auth
func (h *PaiementController) HandleWebhook(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook"})
	}
	if err := paiementService.TraiterWebhook(h.DB, body); err != nil {
		if errors.Is(err, paiementService.ErrSignatureInvalide) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
		}
		log.Println("[ERROR] webhook paiement:", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	return c.SendStatus(fiber.StatusOK)
}

/* ======================= MES PAIEMENTS ======================= */
// GET /api/u/paiements — règlements des logements du résident
func (h *PaiementController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var rows []model.PaiementModel
	if err := h.DB.Model(&model.PaiementModel{}).
		Joins("JOIN cotisations ON cotisations.cotisation_id = paiements.paiement_cotisation_id").
		Joins("JOIN logements ON logements.logement_id = cotisations.cotisation_logement_id").
		Where("logements.logement_resident_id = ?", userID).
		Order("paiement_date DESC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", dto.FromModels(rows))
}

// chargerDonneesRecu rassemble le contexte imprimé sur le reçu.
func (h *PaiementController) chargerDonneesRecu(m model.PaiementModel) (*paiementService.DonneesRecu, error) {
	var ctx struct {
		Association    string
		Adresse        *string
		Logement       string
		Resident       *string
		TypeCotisation string
		Periode        string
	}
	err := h.DB.Table("cotisations").
		Select(`associations.association_nom AS association,
			associations.association_adresse AS adresse,
			logements.logement_numero AS logement,
			users.user_name AS resident,
			types_cotisations.type_cotisation_nom AS type_cotisation,
			cotisations.cotisation_periode AS periode`).
		Joins("JOIN logements ON logements.logement_id = cotisations.cotisation_logement_id").
		Joins("JOIN types_cotisations ON types_cotisations.type_cotisation_id = cotisations.cotisation_type_id").
		Joins("JOIN associations ON associations.association_id = cotisations.cotisation_association_id").
		Joins("LEFT JOIN users ON users.id = logements.logement_resident_id").
		Where("cotisations.cotisation_id = ?", m.PaiementCotisationID).
		Scan(&ctx).Error
	if err != nil {
		return nil, err
	}

	d := &paiementService.DonneesRecu{
		NumeroRecu:     m.PaiementNumeroRecu,
		Association:    ctx.Association,
		Logement:       ctx.Logement,
		TypeCotisation: ctx.TypeCotisation,
		Periode:        ctx.Periode,
		Montant:        m.PaiementMontant,
		Methode:        m.PaiementMethode,
		DatePaiement:   m.PaiementDate,
	}
	if ctx.Adresse != nil {
		d.Adresse = *ctx.Adresse
	}
	if ctx.Resident != nil {
		d.Resident = *ctx.Resident
	}
	if m.PaiementReference != nil {
		d.Reference = *m.PaiementReference
	}
	return d, nil
}
