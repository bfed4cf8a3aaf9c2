package database

import (
	"log"

	"gorm.io/gorm"

	assocModel "iltizem_backend/internals/features/associations/associations/model"
	logementModel "iltizem_backend/internals/features/associations/logements/model"
	cotisationModel "iltizem_backend/internals/features/cotisations/cotisations/model"
	typeModel "iltizem_backend/internals/features/cotisations/types/model"
	notifModel "iltizem_backend/internals/features/notifications/model"
	paiementModel "iltizem_backend/internals/features/paiements/model"
	rapportModel "iltizem_backend/internals/features/rapports/model"
	authModel "iltizem_backend/internals/features/users/auth/model"
	userModel "iltizem_backend/internals/features/users/user/model"
)

// Migrate aligne le schéma sur les modèles. Idempotent, lancé au démarrage.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&authModel.RefreshToken{},
		&assocModel.AssociationModel{},
		&logementModel.LogementModel{},
		&typeModel.TypeCotisationModel{},
		&cotisationModel.CotisationModel{},
		&paiementModel.PaiementModel{},
		&paiementModel.RecuCompteur{},
		&paiementModel.TransactionEnLigne{},
		&notifModel.NotificationTemplate{},
		&notifModel.NotificationLog{},
		&rapportModel.RapportModel{},
	)
	if err != nil {
		log.Fatalf("❌ Échec des migrations: %v", err)
	}
	log.Println("✅ Migrations appliquées")
}
