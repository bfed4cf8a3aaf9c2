package service

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	assocModel "iltizem_backend/internals/features/associations/associations/model"
	cotisationModel "iltizem_backend/internals/features/cotisations/cotisations/model"
	"iltizem_backend/internals/features/paiements/model"
)

func setupPaiementTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&assocModel.AssociationModel{},
		&cotisationModel.CotisationModel{},
		&model.PaiementModel{},
		&model.RecuCompteur{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAssocEtCotisation(t *testing.T, db *gorm.DB, nomAssoc string, montant int64) (assocModel.AssociationModel, cotisationModel.CotisationModel) {
	assoc := assocModel.AssociationModel{AssociationNom: nomAssoc, AssociationActif: true, AssociationPlan: "basique"}
	if err := db.Create(&assoc).Error; err != nil {
		t.Fatalf("create association: %v", err)
	}
	cot := cotisationModel.CotisationModel{
		CotisationAssociationID: assoc.AssociationID,
		CotisationLogementID:    uuid.New(),
		CotisationTypeID:        uuid.New(),
		CotisationPeriode:       "2025-05",
		CotisationMontant:       decimal.NewFromInt(montant),
		CotisationStatut:        cotisationModel.StatutDue,
		CotisationDateEcheance:  time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&cot).Error; err != nil {
		t.Fatalf("create cotisation: %v", err)
	}
	return assoc, cot
}

var reNumeroRecu = regexp.MustCompile(`^[A-Z]{1,3}-\d{4}-\d{4}$`)

func TestEnregistrerPaiement(t *testing.T) {
	db := setupPaiementTestDB(t)
	assoc, cot := seedAssocEtCotisation(t, db, "Résidence Essalem", 2000)

	admin := uuid.New()
	res, err := EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
		CotisationID:  cot.CotisationID,
		Methode:       model.MethodeEspeces,
		Montant:       decimal.NewFromInt(2000),
		EnregistrePar: &admin,
		Date:          time.Date(2025, time.June, 5, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("enregistrement: %v", err)
	}

	if !reNumeroRecu.MatchString(res.Paiement.PaiementNumeroRecu) {
		t.Fatalf("numéro de reçu mal formé: %s", res.Paiement.PaiementNumeroRecu)
	}
	if res.Paiement.PaiementNumeroRecu != "RSI-2025-0001" {
		t.Fatalf("attendu RSI-2025-0001, obtenu %s", res.Paiement.PaiementNumeroRecu)
	}
	if !res.Complet() || !res.Difference().IsZero() {
		t.Fatalf("règlement exact attendu complet sans écart, obtenu complet=%v écart=%s",
			res.Complet(), res.Difference())
	}

	// la cotisation bascule en payee dans la même transaction
	var lue cotisationModel.CotisationModel
	if err := db.First(&lue, "cotisation_id = ?", cot.CotisationID).Error; err != nil {
		t.Fatalf("relecture cotisation: %v", err)
	}
	if lue.CotisationStatut != cotisationModel.StatutPayee {
		t.Fatalf("statut attendu payee, obtenu %s", lue.CotisationStatut)
	}

	// un second règlement de la même cotisation est refusé
	_, err = EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
		CotisationID: cot.CotisationID,
		Methode:      model.MethodeVirement,
		Montant:      decimal.NewFromInt(2000),
	})
	if !errors.Is(err, ErrCotisationTerminale) {
		t.Fatalf("attendu ErrCotisationTerminale, obtenu %v", err)
	}
}

func TestEnregistrerPaiementMontantLibre(t *testing.T) {
	db := setupPaiementTestDB(t)
	assoc, cot := seedAssocEtCotisation(t, db, "Cité El Bahdja", 2000)

	// règlement partiel: enregistré tel quel, solde restant visible dans l'écart
	res, err := EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
		CotisationID: cot.CotisationID,
		Methode:      model.MethodeEspeces,
		Montant:      decimal.NewFromInt(1500),
	})
	if err != nil {
		t.Fatalf("règlement partiel refusé: %v", err)
	}
	if !res.Paiement.PaiementMontant.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("montant enregistré altéré: %s", res.Paiement.PaiementMontant)
	}
	if res.Complet() {
		t.Fatalf("1500 sur 2000 ne doit pas être complet")
	}
	if !res.Difference().Equal(decimal.NewFromInt(-500)) {
		t.Fatalf("écart attendu -500, obtenu %s", res.Difference())
	}

	var lue cotisationModel.CotisationModel
	if err := db.First(&lue, "cotisation_id = ?", cot.CotisationID).Error; err != nil {
		t.Fatalf("relecture: %v", err)
	}
	if lue.CotisationStatut != cotisationModel.StatutPayee {
		t.Fatalf("statut attendu payee, obtenu %s", lue.CotisationStatut)
	}

	// trop-perçu: enregistré tel quel, écart positif
	cot2 := cotisationModel.CotisationModel{
		CotisationAssociationID: assoc.AssociationID,
		CotisationLogementID:    uuid.New(),
		CotisationTypeID:        uuid.New(),
		CotisationPeriode:       "2025-06",
		CotisationMontant:       decimal.NewFromInt(2000),
		CotisationStatut:        cotisationModel.StatutDue,
		CotisationDateEcheance:  time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&cot2).Error; err != nil {
		t.Fatalf("create cotisation: %v", err)
	}
	res2, err := EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
		CotisationID: cot2.CotisationID,
		Methode:      model.MethodeVirement,
		Montant:      decimal.NewFromInt(2500),
	})
	if err != nil {
		t.Fatalf("trop-perçu refusé: %v", err)
	}
	if !res2.Complet() || !res2.Difference().Equal(decimal.NewFromInt(500)) {
		t.Fatalf("trop-perçu attendu complet avec écart +500, obtenu complet=%v écart=%s",
			res2.Complet(), res2.Difference())
	}
}

func TestEnregistrerPaiementMontantPositif(t *testing.T) {
	db := setupPaiementTestDB(t)
	assoc, cot := seedAssocEtCotisation(t, db, "Cité des Oliviers", 2000)

	for _, montant := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		_, err := EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
			CotisationID: cot.CotisationID,
			Methode:      model.MethodeEspeces,
			Montant:      montant,
		})
		if !errors.Is(err, ErrMontantInvalide) {
			t.Fatalf("montant %s: attendu ErrMontantInvalide, obtenu %v", montant, err)
		}
	}

	// la cotisation n'a pas bougé
	var lue cotisationModel.CotisationModel
	if err := db.First(&lue, "cotisation_id = ?", cot.CotisationID).Error; err != nil {
		t.Fatalf("relecture: %v", err)
	}
	if lue.CotisationStatut != cotisationModel.StatutDue {
		t.Fatalf("statut attendu due, obtenu %s", lue.CotisationStatut)
	}
}

func TestEnregistrerPaiementDateFuture(t *testing.T) {
	db := setupPaiementTestDB(t)
	assoc, cot := seedAssocEtCotisation(t, db, "Cité El Bahdja", 2000)

	_, err := EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
		CotisationID: cot.CotisationID,
		Methode:      model.MethodeEspeces,
		Montant:      decimal.NewFromInt(2000),
		Date:         time.Now().AddDate(1, 0, 0),
	})
	if !errors.Is(err, ErrDateFuture) {
		t.Fatalf("attendu ErrDateFuture, obtenu %v", err)
	}

	var lue cotisationModel.CotisationModel
	if err := db.First(&lue, "cotisation_id = ?", cot.CotisationID).Error; err != nil {
		t.Fatalf("relecture: %v", err)
	}
	if lue.CotisationStatut != cotisationModel.StatutDue {
		t.Fatalf("statut attendu due, obtenu %s", lue.CotisationStatut)
	}
}

func TestEnregistrerPaiementCotisationIntrouvable(t *testing.T) {
	db := setupPaiementTestDB(t)
	assoc, cot := seedAssocEtCotisation(t, db, "Résidence Les Palmiers", 2000)

	// cotisation inconnue
	_, err := EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
		CotisationID: uuid.New(),
		Methode:      model.MethodeEspeces,
		Montant:      decimal.NewFromInt(2000),
	})
	if !errors.Is(err, ErrCotisationIntrouvable) {
		t.Fatalf("attendu ErrCotisationIntrouvable, obtenu %v", err)
	}

	// cotisation d'une autre association: invisible
	_, err = EnregistrerPaiement(db, uuid.New(), SaisiePaiement{
		CotisationID: cot.CotisationID,
		Methode:      model.MethodeEspeces,
		Montant:      decimal.NewFromInt(2000),
	})
	if !errors.Is(err, ErrCotisationIntrouvable) {
		t.Fatalf("attendu ErrCotisationIntrouvable hors périmètre, obtenu %v", err)
	}
}

func TestNumerotationRecusSequentielle(t *testing.T) {
	db := setupPaiementTestDB(t)
	assoc, _ := seedAssocEtCotisation(t, db, "Résidence Essalem", 2000)

	payer := func(periode string) *ResultatPaiement {
		cot := cotisationModel.CotisationModel{
			CotisationAssociationID: assoc.AssociationID,
			CotisationLogementID:    uuid.New(),
			CotisationTypeID:        uuid.New(),
			CotisationPeriode:       periode,
			CotisationMontant:       decimal.NewFromInt(2000),
			CotisationStatut:        cotisationModel.StatutDue,
			CotisationDateEcheance:  time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		}
		if err := db.Create(&cot).Error; err != nil {
			t.Fatalf("create cotisation %s: %v", periode, err)
		}
		p, err := EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
			CotisationID: cot.CotisationID,
			Methode:      model.MethodeEspeces,
			Montant:      decimal.NewFromInt(2000),
			Date:         time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("paiement %s: %v", periode, err)
		}
		return p
	}

	p1 := payer("2025-06")
	p2 := payer("2025-07")
	p3 := payer("2025-08")

	if p1.Paiement.PaiementNumeroRecu != "RSI-2025-0001" ||
		p2.Paiement.PaiementNumeroRecu != "RSI-2025-0002" ||
		p3.Paiement.PaiementNumeroRecu != "RSI-2025-0003" {
		t.Fatalf("séquence de reçus cassée: %s %s %s",
			p1.Paiement.PaiementNumeroRecu, p2.Paiement.PaiementNumeroRecu, p3.Paiement.PaiementNumeroRecu)
	}

	// le compteur repart à 1 pour une autre année
	cot := cotisationModel.CotisationModel{
		CotisationAssociationID: assoc.AssociationID,
		CotisationLogementID:    uuid.New(),
		CotisationTypeID:        uuid.New(),
		CotisationPeriode:       "2026-01",
		CotisationMontant:       decimal.NewFromInt(2000),
		CotisationStatut:        cotisationModel.StatutDue,
		CotisationDateEcheance:  time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&cot).Error; err != nil {
		t.Fatalf("create cotisation 2026: %v", err)
	}
	p4, err := EnregistrerPaiement(db, assoc.AssociationID, SaisiePaiement{
		CotisationID: cot.CotisationID,
		Methode:      model.MethodeVirement,
		Montant:      decimal.NewFromInt(2000),
		Date:         time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("paiement 2026: %v", err)
	}
	if p4.Paiement.PaiementNumeroRecu != "RSI-2026-0001" {
		t.Fatalf("attendu RSI-2026-0001, obtenu %s", p4.Paiement.PaiementNumeroRecu)
	}
}
