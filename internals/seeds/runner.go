package seeds

import (
	"log"

	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	notifModel "iltizem_backend/internals/features/notifications/model"
	authService "iltizem_backend/internals/features/users/auth/service"
	userModel "iltizem_backend/internals/features/users/user/model"
)

// RunAllSeeds installe les données de base: le compte super admin et les
// gabarits de notification globaux. Chaque seed est idempotent.
func RunAllSeeds(db *gorm.DB) {
	seedSuperAdmin(db)
	seedTemplatesParDefaut(db)
}

func seedSuperAdmin(db *gorm.DB) {
	email := configs.GetEnv("SUPERADMIN_EMAIL", "admin@iltizem.dz")
	password := configs.GetEnv("SUPERADMIN_PASSWORD")
	if password == "" {
		log.Println("⚠️ SUPERADMIN_PASSWORD absent, seed super admin ignoré")
		return
	}

	var count int64
	db.Model(&userModel.UserModel{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		log.Printf("[SEED ERROR] hash super admin: %v", err)
		return
	}
	admin := userModel.UserModel{
		UserName: "Super Admin",
		Email:    email,
		Password: hash,
		Role:     userModel.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("[SEED ERROR] création super admin: %v", err)
		return
	}
	log.Printf("✅ Super admin %s créé", email)
}

func seedTemplatesParDefaut(db *gorm.DB) {
	defauts := []notifModel.NotificationTemplate{
		{
			TemplateCode:  notifModel.CodeRappelImpaye,
			TemplateCanal: notifModel.CanalEmail,
			TemplateSujet: "Rappel de cotisation - {{.Association}}",
			TemplateCorps: "Bonjour {{.ResidentNom}},\n\n" +
				"La cotisation \"{{.TypeCotisation}}\" de la période {{.Periode}} pour le logement {{.Logement}} reste impayée.\n\n" +
				"Montant dû : {{.Montant}} DA\n" +
				"Échéance   : {{.Echeance.Format \"02/01/2006\"}}\n\n" +
				"Merci de régulariser votre situation auprès de votre association.\n\n{{.Association}}",
			TemplateActif: true,
		},
		{
			TemplateCode:  notifModel.CodeRappelImpaye,
			TemplateCanal: notifModel.CanalSMS,
			TemplateCorps: "{{.Association}}: cotisation {{.Periode}} de {{.Montant}} DA impayée pour le logement {{.Logement}}. Merci de régulariser.",
			TemplateActif: true,
		},
	}

	for _, tpl := range defauts {
		var count int64
		db.Model(&notifModel.NotificationTemplate{}).
			Where("template_association_id IS NULL AND template_code = ? AND template_canal = ?",
				tpl.TemplateCode, tpl.TemplateCanal).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&tpl).Error; err != nil {
			log.Printf("[SEED ERROR] gabarit %s/%s: %v", tpl.TemplateCode, tpl.TemplateCanal, err)
		}
	}
}
