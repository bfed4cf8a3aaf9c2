package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	assocController "iltizem_backend/internals/features/associations/associations/controller"
	logementController "iltizem_backend/internals/features/associations/logements/controller"
	cotisationController "iltizem_backend/internals/features/cotisations/cotisations/controller"
	typeController "iltizem_backend/internals/features/cotisations/types/controller"
	notifController "iltizem_backend/internals/features/notifications/controller"
	notifService "iltizem_backend/internals/features/notifications/service"
	paiementController "iltizem_backend/internals/features/paiements/controller"
	rapportController "iltizem_backend/internals/features/rapports/controller"
	authController "iltizem_backend/internals/features/users/auth/controller"
	userController "iltizem_backend/internals/features/users/user/controller"
	middlewares "iltizem_backend/internals/middlewares"
	authMiddleware "iltizem_backend/internals/middlewares/auth"
	featuresMiddleware "iltizem_backend/internals/middlewares/features"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, plans configs.PlanCatalog, mailer notifService.Mailer, sms notifService.SMSSender) {
	startTime = time.Now()

	auth := authController.NewAuthController(db)
	users := userController.NewUserController(db)
	assocs := assocController.NewAssociationController(db, plans)
	logements := logementController.NewLogementController(db, plans)
	types := typeController.NewTypeCotisationController(db)
	cotisations := cotisationController.NewCotisationController(db)
	paiements := paiementController.NewPaiementController(db, plans)
	notifications := notifController.NewNotificationController(db, mailer, sms, plans)
	rapports := rapportController.NewRapportController(db, plans)

	// ===================== AUTH =====================
	log.Println("[INFO] Montage des routes auth...")
	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", middlewares.RegisterRateLimiter(), auth.Register)
	authGroup.Post("/login", middlewares.LoginRateLimiter(), auth.Login)
	authGroup.Post("/refresh", auth.Refresh)
	authGroup.Post("/logout", auth.Logout)

	// ===================== WEBHOOK PUBLIC =====================
	// callback prestataire de paiement, hors auth (cf. skipPaths du middleware)
	app.Post("/api/paiements/notification", paiements.HandleWebhook)

	// ===================== RESIDENT (/api/u) =====================
	log.Println("[INFO] Montage du groupe RESIDENT...")
	resident := app.Group("/api/u",
		authMiddleware.AuthMiddleware(db),
		middlewares.APIRateLimiter(),
	)
	resident.Get("/me", auth.Me)
	resident.Get("/logements", logements.ListMine)
	resident.Get("/cotisations", cotisations.ListMine)
	resident.Get("/paiements", paiements.ListMine)
	resident.Post("/paiements/en-ligne", paiements.PayerEnLigne)

	// ===================== ADMIN ASSOCIATION (/api/a) =====================
	log.Println("[INFO] Montage du groupe ADMIN (Auth + Rôle + Scope)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		middlewares.APIRateLimiter(),
		authMiddleware.OnlyRoles("Accès réservé aux administrateurs d'association",
			authMiddleware.RoleAdminAssociation),
		featuresMiddleware.UseAssociationScope(db),
	)

	admin.Get("/association", assocs.GetMine)

	admin.Post("/logements", logements.Create)
	admin.Get("/logements", logements.List)
	admin.Get("/logements/:id", logements.GetByID)
	admin.Patch("/logements/:id", logements.Update)
	admin.Delete("/logements/:id", logements.Deactivate)

	admin.Post("/types-cotisations", types.Create)
	admin.Get("/types-cotisations", types.List)
	admin.Get("/types-cotisations/:id", types.GetByID)
	admin.Patch("/types-cotisations/:id", types.Update)
	admin.Delete("/types-cotisations/:id", types.Delete)

	admin.Post("/cotisations/generer", cotisations.Generer)
	admin.Get("/cotisations", cotisations.List)
	admin.Get("/cotisations/:id", cotisations.GetByID)
	admin.Post("/cotisations/:id/annuler", cotisations.Annuler)

	admin.Post("/paiements", paiements.Create)
	admin.Get("/paiements", paiements.List)
	admin.Get("/paiements/:id", paiements.GetByID)
	admin.Get("/paiements/:id/recu", paiements.TelechargerRecu)

	admin.Get("/notifications/templates", notifications.ListTemplates)
	admin.Put("/notifications/templates", notifications.UpsertTemplate)
	admin.Get("/notifications/logs", notifications.ListLogs)
	admin.Post("/notifications/rappels", notifications.DeclencherRappels)
	admin.Post("/notifications/retentatives", notifications.RetenterEchecs)

	admin.Post("/rapports", rapports.Generer)
	admin.Get("/rapports", rapports.List)
	admin.Get("/rapports/:id", rapports.GetByID)
	admin.Get("/rapports/:id/telecharger", rapports.Telecharger)
	admin.Get("/rapports/:id/excel",
		featuresMiddleware.RequireFeature(plans, "export_excel"),
		rapports.TelechargerExcel)

	// ===================== SUPER ADMIN (/api/o) =====================
	log.Println("[INFO] Montage du groupe SUPER ADMIN...")
	owner := app.Group("/api/o",
		authMiddleware.AuthMiddleware(db),
		middlewares.APIRateLimiter(),
		authMiddleware.OnlyRoles("Accès réservé au super administrateur",
			authMiddleware.RoleSuperAdmin),
	)

	owner.Post("/associations", assocs.Create)
	owner.Get("/associations", assocs.List)
	owner.Get("/associations/:id", assocs.GetByID)
	owner.Patch("/associations/:id", assocs.Update)
	owner.Delete("/associations/:id", assocs.Deactivate)

	owner.Post("/users", users.Create)
	owner.Get("/users", users.List)
	owner.Get("/users/:id", users.GetByID)
	owner.Patch("/users/:id", users.Update)
	owner.Delete("/users/:id", users.Deactivate)
}
