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
	cotisationModel "iltizem_backend/internals/features/cotisations/cotisations/model"
	paiementModel "iltizem_backend/internals/features/paiements/model"
	"iltizem_backend/internals/features/rapports/model"
	userModel "iltizem_backend/internals/features/users/user/model"
)

func setupRapportTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&assocModel.AssociationModel{},
		&logementModel.LogementModel{},
		&cotisationModel.CotisationModel{},
		&paiementModel.PaiementModel{},
		&model.RapportModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCollecterDonneesMensuel(t *testing.T) {
	db := setupRapportTestDB(t)

	assoc := assocModel.AssociationModel{AssociationNom: "Résidence Essalem", AssociationActif: true, AssociationPlan: "basique"}
	if err := db.Create(&assoc).Error; err != nil {
		t.Fatalf("create association: %v", err)
	}

	resident := userModel.UserModel{UserName: "Karim Benali", Email: "karim@example.com", Password: "hash", Role: userModel.RoleResident, IsActive: true}
	if err := db.Create(&resident).Error; err != nil {
		t.Fatalf("create resident: %v", err)
	}

	logement := func(numero string, residentID *uuid.UUID) logementModel.LogementModel {
		lg := logementModel.LogementModel{
			LogementAssociationID: assoc.AssociationID,
			LogementNumero:        numero,
			LogementResidentID:    residentID,
			LogementActif:         true,
		}
		if err := db.Create(&lg).Error; err != nil {
			t.Fatalf("create logement %s: %v", numero, err)
		}
		return lg
	}
	lg1 := logement("A1", &resident.ID)
	lg2 := logement("A2", nil)
	lg3 := logement("A3", nil)
	lg4 := logement("A4", nil)

	typeID := uuid.New()
	cotiser := func(lg logementModel.LogementModel, periode, statut string, montant int64) cotisationModel.CotisationModel {
		c := cotisationModel.CotisationModel{
			CotisationAssociationID: assoc.AssociationID,
			CotisationLogementID:    lg.LogementID,
			CotisationTypeID:        typeID,
			CotisationPeriode:       periode,
			CotisationMontant:       decimal.NewFromInt(montant),
			CotisationStatut:        statut,
			CotisationDateEcheance:  time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("create cotisation %s/%s: %v", lg.LogementNumero, periode, err)
		}
		return c
	}

	payee := cotiser(lg1, "2025-05", cotisationModel.StatutPayee, 2000)
	cotiser(lg2, "2025-05", cotisationModel.StatutRetard, 2000)
	cotiser(lg3, "2025-05", cotisationModel.StatutDue, 2000)
	cotiser(lg4, "2025-05", cotisationModel.StatutAnnulee, 2000)
	cotiser(lg1, "2025-06", cotisationModel.StatutDue, 2000) // autre période, hors rapport

	paiement := paiementModel.PaiementModel{
		PaiementAssociationID: assoc.AssociationID,
		PaiementCotisationID:  payee.CotisationID,
		PaiementMontant:       decimal.NewFromInt(2000),
		PaiementMethode:       paiementModel.MethodeEspeces,
		PaiementNumeroRecu:    "RE-2025-0001",
		PaiementDate:          time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&paiement).Error; err != nil {
		t.Fatalf("create paiement: %v", err)
	}

	d, err := CollecterDonnees(db, assoc.AssociationID, model.RapportMensuel, "2025-05")
	if err != nil {
		t.Fatalf("collecte: %v", err)
	}

	if d.Association != "Résidence Essalem" {
		t.Fatalf("association attendue, obtenu %q", d.Association)
	}
	if d.NbCotisations != 4 || d.NbPayees != 1 || d.NbImpayees != 2 || d.NbAnnulees != 1 {
		t.Fatalf("comptes inattendus: %+v", d)
	}
	// les annulées ne comptent ni dans l'attendu ni dans le collecté
	if !d.MontantAttendu.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("montant attendu 6000, obtenu %s", d.MontantAttendu)
	}
	if !d.MontantCollecte.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("montant collecté 2000, obtenu %s", d.MontantCollecte)
	}
	if !d.TauxRecouvrement.Equal(decimal.NewFromFloat(33.33)) {
		t.Fatalf("taux attendu 33.33, obtenu %s", d.TauxRecouvrement)
	}

	if len(d.ParMethode) != 1 || d.ParMethode[0].Methode != paiementModel.MethodeEspeces || d.ParMethode[0].Nombre != 1 {
		t.Fatalf("répartition par méthode inattendue: %+v", d.ParMethode)
	}

	if len(d.Impayes) != 2 {
		t.Fatalf("attendu 2 impayés, obtenu %d", len(d.Impayes))
	}
	// triés par numéro de logement, résident vide quand le logement est vacant
	if d.Impayes[0].Logement != "A2" || d.Impayes[1].Logement != "A3" {
		t.Fatalf("ordre des impayés inattendu: %+v", d.Impayes)
	}
	if d.Impayes[0].Resident != "" {
		t.Fatalf("logement vacant avec résident: %+v", d.Impayes[0])
	}
}

func TestCollecterDonneesAnnuel(t *testing.T) {
	db := setupRapportTestDB(t)

	assoc := assocModel.AssociationModel{AssociationNom: "Cité El Bahdja", AssociationActif: true, AssociationPlan: "basique"}
	if err := db.Create(&assoc).Error; err != nil {
		t.Fatalf("create association: %v", err)
	}
	lg := logementModel.LogementModel{LogementAssociationID: assoc.AssociationID, LogementNumero: "B1", LogementActif: true}
	if err := db.Create(&lg).Error; err != nil {
		t.Fatalf("create logement: %v", err)
	}

	typeID := uuid.New()
	for i, cas := range []struct {
		periode string
		statut  string
	}{
		{"2025-01", cotisationModel.StatutPayee},
		{"2025-02", cotisationModel.StatutPayee},
		{"2025-03", cotisationModel.StatutRetard},
		{"2024-12", cotisationModel.StatutDue}, // hors exercice
	} {
		c := cotisationModel.CotisationModel{
			CotisationAssociationID: assoc.AssociationID,
			CotisationLogementID:    lg.LogementID,
			CotisationTypeID:        typeID,
			CotisationPeriode:       cas.periode,
			CotisationMontant:       decimal.NewFromInt(1000),
			CotisationStatut:        cas.statut,
			CotisationDateEcheance:  time.Date(2025, time.Month(i+1), 10, 0, 0, 0, 0, time.UTC),
		}
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("create cotisation %s: %v", cas.periode, err)
		}
	}

	d, err := CollecterDonnees(db, assoc.AssociationID, model.RapportAnnuel, "2025")
	if err != nil {
		t.Fatalf("collecte annuelle: %v", err)
	}
	if d.NbCotisations != 3 {
		t.Fatalf("attendu 3 cotisations sur 2025, obtenu %d", d.NbCotisations)
	}
	if !d.MontantAttendu.Equal(decimal.NewFromInt(3000)) || !d.MontantCollecte.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("montants inattendus: attendu=%s collecté=%s", d.MontantAttendu, d.MontantCollecte)
	}
	if !d.TauxRecouvrement.Equal(decimal.NewFromFloat(66.67)) {
		t.Fatalf("taux attendu 66.67, obtenu %s", d.TauxRecouvrement)
	}
}

func TestCollecterDonneesAssociationInconnue(t *testing.T) {
	db := setupRapportTestDB(t)
	if _, err := CollecterDonnees(db, uuid.New(), model.RapportMensuel, "2025-05"); err == nil {
		t.Fatal("association inconnue acceptée")
	}
}
