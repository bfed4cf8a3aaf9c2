package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	assocModel "iltizem_backend/internals/features/associations/associations/model"
	logementModel "iltizem_backend/internals/features/associations/logements/model"
	"iltizem_backend/internals/features/cotisations/cotisations/model"
	typeModel "iltizem_backend/internals/features/cotisations/types/model"
	userModel "iltizem_backend/internals/features/users/user/model"
)

func setupCotisationTestDB(t *testing.T) *gorm.DB {
	// base en mémoire propre à chaque test pour éviter les fuites d'état
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&assocModel.AssociationModel{},
		&logementModel.LogementModel{},
		&typeModel.TypeCotisationModel{},
		&model.CotisationModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAssociation(t *testing.T, db *gorm.DB, nom string) assocModel.AssociationModel {
	a := assocModel.AssociationModel{AssociationNom: nom, AssociationActif: true, AssociationPlan: "basique"}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create association: %v", err)
	}
	return a
}

func seedLogement(t *testing.T, db *gorm.DB, assocID uuid.UUID, numero string, override *decimal.Decimal) logementModel.LogementModel {
	lg := logementModel.LogementModel{
		LogementAssociationID:   assocID,
		LogementNumero:          numero,
		LogementMontantOverride: override,
		LogementActif:           true,
	}
	if err := db.Create(&lg).Error; err != nil {
		t.Fatalf("create logement %s: %v", numero, err)
	}
	return lg
}

func seedType(t *testing.T, db *gorm.DB, assocID uuid.UUID, nom, periodicite string, montant int64) typeModel.TypeCotisationModel {
	tc := typeModel.TypeCotisationModel{
		TypeCotisationAssociationID: assocID,
		TypeCotisationNom:           nom,
		TypeCotisationMontant:       decimal.NewFromInt(montant),
		TypeCotisationPeriodicite:   periodicite,
		TypeCotisationActif:         true,
	}
	if err := db.Create(&tc).Error; err != nil {
		t.Fatalf("create type %s: %v", nom, err)
	}
	return tc
}

func TestGenererCotisationsIdempotente(t *testing.T) {
	db := setupCotisationTestDB(t)
	assoc := seedAssociation(t, db, "Résidence Les Palmiers")
	seedLogement(t, db, assoc.AssociationID, "A1", nil)
	seedLogement(t, db, assoc.AssociationID, "A2", nil)
	seedType(t, db, assoc.AssociationID, "Charges communes", typeModel.PeriodiciteMensuelle, 2000)

	ref := time.Date(2025, time.May, 25, 2, 0, 0, 0, time.UTC)

	res, err := GenererCotisations(db, assoc.AssociationID, nil, "", ref)
	if err != nil {
		t.Fatalf("première génération: %v", err)
	}
	if res.Creees != 2 || res.Ignorees != 0 {
		t.Fatalf("attendu 2 créées / 0 ignorées, obtenu %d / %d", res.Creees, res.Ignorees)
	}

	// rejouer la même passe ne crée aucun doublon
	res2, err := GenererCotisations(db, assoc.AssociationID, nil, "", ref)
	if err != nil {
		t.Fatalf("seconde génération: %v", err)
	}
	if res2.Creees != 0 || res2.Ignorees != 2 {
		t.Fatalf("attendu 0 créée / 2 ignorées, obtenu %d / %d", res2.Creees, res2.Ignorees)
	}

	var cotisations []model.CotisationModel
	if err := db.Find(&cotisations).Error; err != nil {
		t.Fatalf("lecture cotisations: %v", err)
	}
	if len(cotisations) != 2 {
		t.Fatalf("attendu 2 cotisations en base, obtenu %d", len(cotisations))
	}
	echeance := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)
	for _, c := range cotisations {
		if c.CotisationPeriode != "2025-06" {
			t.Fatalf("période attendue 2025-06, obtenu %s", c.CotisationPeriode)
		}
		if c.CotisationStatut != model.StatutDue {
			t.Fatalf("statut attendu due, obtenu %s", c.CotisationStatut)
		}
		if !c.CotisationDateEcheance.Equal(echeance) {
			t.Fatalf("échéance attendue %s, obtenu %s", echeance, c.CotisationDateEcheance)
		}
	}
}

func TestGenererCotisationsMontantOverride(t *testing.T) {
	db := setupCotisationTestDB(t)
	assoc := seedAssociation(t, db, "Cité El Bahdja")
	override := decimal.NewFromInt(3500)
	lgOverride := seedLogement(t, db, assoc.AssociationID, "B1", &override)
	lgNormal := seedLogement(t, db, assoc.AssociationID, "B2", nil)
	seedType(t, db, assoc.AssociationID, "Charges communes", typeModel.PeriodiciteMensuelle, 2000)

	ref := time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC)
	if _, err := GenererCotisations(db, assoc.AssociationID, nil, "", ref); err != nil {
		t.Fatalf("génération: %v", err)
	}

	var c model.CotisationModel
	if err := db.First(&c, "cotisation_logement_id = ?", lgOverride.LogementID).Error; err != nil {
		t.Fatalf("lecture cotisation override: %v", err)
	}
	if !c.CotisationMontant.Equal(override) {
		t.Fatalf("montant override attendu %s, obtenu %s", override, c.CotisationMontant)
	}

	if err := db.First(&c, "cotisation_logement_id = ?", lgNormal.LogementID).Error; err != nil {
		t.Fatalf("lecture cotisation standard: %v", err)
	}
	if !c.CotisationMontant.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("montant standard attendu 2000, obtenu %s", c.CotisationMontant)
	}
}

func TestGenererCotisationsPeriodeExplicite(t *testing.T) {
	db := setupCotisationTestDB(t)
	assoc := seedAssociation(t, db, "Résidence Essalem")
	seedLogement(t, db, assoc.AssociationID, "C1", nil)
	mensuel := seedType(t, db, assoc.AssociationID, "Charges communes", typeModel.PeriodiciteMensuelle, 2000)
	seedType(t, db, assoc.AssociationID, "Entretien ascenseur", typeModel.PeriodiciteTrimestrielle, 6000)

	ref := time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC)

	// période mensuelle explicite: le type trimestriel est ignoré sans erreur
	res, err := GenererCotisations(db, assoc.AssociationID, nil, "2025-09", ref)
	if err != nil {
		t.Fatalf("génération période explicite: %v", err)
	}
	if res.Creees != 1 {
		t.Fatalf("attendu 1 créée (type mensuel seul), obtenu %d", res.Creees)
	}

	// mais avec un type ciblé, la période incohérente est une erreur
	trimestriel := seedType(t, db, assoc.AssociationID, "Gardiennage", typeModel.PeriodiciteTrimestrielle, 4000)
	if _, err := GenererCotisations(db, assoc.AssociationID, &trimestriel.TypeCotisationID, "2025-09", ref); err == nil {
		t.Fatal("période mensuelle acceptée pour un type trimestriel ciblé")
	}

	// type ciblé avec une période cohérente
	res, err = GenererCotisations(db, assoc.AssociationID, &mensuel.TypeCotisationID, "2025-10", ref)
	if err != nil {
		t.Fatalf("génération type ciblé: %v", err)
	}
	if res.Creees != 1 {
		t.Fatalf("attendu 1 créée pour le type ciblé, obtenu %d", res.Creees)
	}
}

func TestGenererCotisationsIgnoreLogementsInactifs(t *testing.T) {
	db := setupCotisationTestDB(t)
	assoc := seedAssociation(t, db, "Résidence El Feth")
	seedLogement(t, db, assoc.AssociationID, "D1", nil)
	inactif := logementModel.LogementModel{
		LogementAssociationID: assoc.AssociationID,
		LogementNumero:        "D2",
		LogementActif:         false,
	}
	if err := db.Create(&inactif).Error; err != nil {
		t.Fatalf("create logement inactif: %v", err)
	}
	seedType(t, db, assoc.AssociationID, "Charges communes", typeModel.PeriodiciteMensuelle, 2000)

	res, err := GenererCotisations(db, assoc.AssociationID, nil, "", time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("génération: %v", err)
	}
	if res.Creees != 1 {
		t.Fatalf("attendu 1 créée (logement actif seul), obtenu %d", res.Creees)
	}
}

func TestGenererCotisationsTypesIndependants(t *testing.T) {
	db := setupCotisationTestDB(t)
	assoc := seedAssociation(t, db, "Résidence El Qods")
	seedLogement(t, db, assoc.AssociationID, "F1", nil)
	valide := seedType(t, db, assoc.AssociationID, "Charges communes", typeModel.PeriodiciteMensuelle, 2000)
	// périodicité inconnue en base: le lot de ce type échoue, pas la passe
	seedType(t, db, assoc.AssociationID, "Type corrompu", "hebdomadaire", 500)

	res, err := GenererCotisations(db, assoc.AssociationID, nil, "", time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("génération avec type en échec: %v", err)
	}
	if res.Creees != 1 {
		t.Fatalf("attendu 1 créée pour le type valide, obtenu %d", res.Creees)
	}

	// le lot du type valide est acquis malgré l'échec de l'autre
	var nb int64
	db.Model(&model.CotisationModel{}).
		Where("cotisation_type_id = ?", valide.TypeCotisationID).
		Count(&nb)
	if nb != 1 {
		t.Fatalf("attendu 1 cotisation du type valide en base, obtenu %d", nb)
	}

	// type corrompu ciblé explicitement: l'erreur remonte
	corrompu := seedType(t, db, assoc.AssociationID, "Autre corrompu", "hebdomadaire", 500)
	if _, err := GenererCotisations(db, assoc.AssociationID, &corrompu.TypeCotisationID, "", time.Now()); err == nil {
		t.Fatal("périodicité inconnue acceptée pour un type ciblé")
	}
}

func TestGenererCotisationsSansTypeActif(t *testing.T) {
	db := setupCotisationTestDB(t)
	assoc := seedAssociation(t, db, "Résidence Vide")
	seedLogement(t, db, assoc.AssociationID, "E1", nil)

	if _, err := GenererCotisations(db, assoc.AssociationID, nil, "", time.Now()); err == nil {
		t.Fatal("génération sans type actif acceptée")
	}
}
