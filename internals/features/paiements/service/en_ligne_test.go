package service

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cotisationModel "iltizem_backend/internals/features/cotisations/cotisations/model"
	"iltizem_backend/internals/features/paiements/model"
)

const cleServeurTest = "cle-serveur-test"

// signerNotification reproduit la signature attendue par le prestataire:
// SHA512 de order_id + status_code + gross_amount + clé serveur.
func signerNotification(orderID, statusCode, grossAmount string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + cleServeurTest))
	return hex.EncodeToString(h[:])
}

func notificationSignee(orderID, status string) map[string]interface{} {
	return map[string]interface{}{
		"order_id":           orderID,
		"transaction_status": status,
		"status_code":        "200",
		"gross_amount":       "2000.00",
		"signature_key":      signerNotification(orderID, "200", "2000.00"),
	}
}

func TestTraiterWebhookReglement(t *testing.T) {
	InitMidtrans(cleServeurTest)
	db := setupPaiementTestDB(t)
	if err := db.AutoMigrate(&model.TransactionEnLigne{}); err != nil {
		t.Fatalf("migrate transaction: %v", err)
	}
	assoc, cot := seedAssocEtCotisation(t, db, "Résidence Essalem", 2000)

	trx := model.TransactionEnLigne{
		TransactionAssociationID: assoc.AssociationID,
		TransactionCotisationID:  cot.CotisationID,
		TransactionUserID:        uuid.New(),
		TransactionOrderID:       "COT-" + uuid.New().String(),
		TransactionMontant:       decimal.NewFromInt(2000),
		TransactionStatut:        model.TransactionEnAttente,
	}
	if err := db.Create(&trx).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	payload := notificationSignee(trx.TransactionOrderID, "settlement")
	if err := TraiterWebhook(db, payload); err != nil {
		t.Fatalf("webhook settlement: %v", err)
	}

	var lue model.TransactionEnLigne
	if err := db.First(&lue, "transaction_order_id = ?", trx.TransactionOrderID).Error; err != nil {
		t.Fatalf("relecture transaction: %v", err)
	}
	if lue.TransactionStatut != model.TransactionReglee {
		t.Fatalf("statut attendu reglee, obtenu %s", lue.TransactionStatut)
	}

	var cotLue cotisationModel.CotisationModel
	if err := db.First(&cotLue, "cotisation_id = ?", cot.CotisationID).Error; err != nil {
		t.Fatalf("relecture cotisation: %v", err)
	}
	if cotLue.CotisationStatut != cotisationModel.StatutPayee {
		t.Fatalf("cotisation attendue payee, obtenu %s", cotLue.CotisationStatut)
	}

	var paiement model.PaiementModel
	if err := db.First(&paiement, "paiement_cotisation_id = ?", cot.CotisationID).Error; err != nil {
		t.Fatalf("paiement non créé: %v", err)
	}
	if paiement.PaiementMethode != model.MethodeEnLigne {
		t.Fatalf("méthode attendue en_ligne, obtenu %s", paiement.PaiementMethode)
	}

	// un webhook dupliqué ne crée rien de plus
	if err := TraiterWebhook(db, payload); err != nil {
		t.Fatalf("webhook rejoué: %v", err)
	}
	var nb int64
	db.Model(&model.PaiementModel{}).Count(&nb)
	if nb != 1 {
		t.Fatalf("attendu 1 paiement après rejeu, obtenu %d", nb)
	}
}

func TestTraiterWebhookSignatureInvalide(t *testing.T) {
	InitMidtrans(cleServeurTest)
	db := setupPaiementTestDB(t)
	if err := db.AutoMigrate(&model.TransactionEnLigne{}); err != nil {
		t.Fatalf("migrate transaction: %v", err)
	}
	assoc, cot := seedAssocEtCotisation(t, db, "Résidence Essalem", 2000)

	trx := model.TransactionEnLigne{
		TransactionAssociationID: assoc.AssociationID,
		TransactionCotisationID:  cot.CotisationID,
		TransactionUserID:        uuid.New(),
		TransactionOrderID:       "COT-" + uuid.New().String(),
		TransactionMontant:       decimal.NewFromInt(2000),
		TransactionStatut:        model.TransactionEnAttente,
	}
	if err := db.Create(&trx).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	// notification forgée avec un order_id connu mais sans signature
	err := TraiterWebhook(db, map[string]interface{}{
		"order_id":           trx.TransactionOrderID,
		"transaction_status": "settlement",
	})
	if !errors.Is(err, ErrSignatureInvalide) {
		t.Fatalf("attendu ErrSignatureInvalide sans signature, obtenu %v", err)
	}

	// signature calculée avec une mauvaise clé
	mauvaise := sha512.Sum512([]byte(trx.TransactionOrderID + "200" + "2000.00" + "autre-cle"))
	err = TraiterWebhook(db, map[string]interface{}{
		"order_id":           trx.TransactionOrderID,
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "2000.00",
		"signature_key":      hex.EncodeToString(mauvaise[:]),
	})
	if !errors.Is(err, ErrSignatureInvalide) {
		t.Fatalf("attendu ErrSignatureInvalide sur mauvaise clé, obtenu %v", err)
	}

	// rien n'a bougé: pas de paiement, cotisation toujours due
	var nb int64
	db.Model(&model.PaiementModel{}).Count(&nb)
	if nb != 0 {
		t.Fatalf("paiement créé malgré la signature invalide: %d", nb)
	}
	var cotLue cotisationModel.CotisationModel
	db.First(&cotLue, "cotisation_id = ?", cot.CotisationID)
	if cotLue.CotisationStatut != cotisationModel.StatutDue {
		t.Fatalf("cotisation attendue due, obtenu %s", cotLue.CotisationStatut)
	}
	var trxLue model.TransactionEnLigne
	db.First(&trxLue, "transaction_order_id = ?", trx.TransactionOrderID)
	if trxLue.TransactionStatut != model.TransactionEnAttente {
		t.Fatalf("transaction attendue en_attente, obtenu %s", trxLue.TransactionStatut)
	}
}

func TestTraiterWebhookExpiration(t *testing.T) {
	InitMidtrans(cleServeurTest)
	db := setupPaiementTestDB(t)
	if err := db.AutoMigrate(&model.TransactionEnLigne{}); err != nil {
		t.Fatalf("migrate transaction: %v", err)
	}
	assoc, cot := seedAssocEtCotisation(t, db, "Cité El Bahdja", 2000)

	trx := model.TransactionEnLigne{
		TransactionAssociationID: assoc.AssociationID,
		TransactionCotisationID:  cot.CotisationID,
		TransactionUserID:        uuid.New(),
		TransactionOrderID:       "COT-" + uuid.New().String(),
		TransactionMontant:       decimal.NewFromInt(2000),
		TransactionStatut:        model.TransactionEnAttente,
	}
	if err := db.Create(&trx).Error; err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if err := TraiterWebhook(db, notificationSignee(trx.TransactionOrderID, "expire")); err != nil {
		t.Fatalf("webhook expire: %v", err)
	}

	var lue model.TransactionEnLigne
	db.First(&lue, "transaction_order_id = ?", trx.TransactionOrderID)
	if lue.TransactionStatut != model.TransactionExpiree {
		t.Fatalf("statut attendu expiree, obtenu %s", lue.TransactionStatut)
	}

	// la cotisation reste due
	var cotLue cotisationModel.CotisationModel
	db.First(&cotLue, "cotisation_id = ?", cot.CotisationID)
	if cotLue.CotisationStatut != cotisationModel.StatutDue {
		t.Fatalf("cotisation attendue due, obtenu %s", cotLue.CotisationStatut)
	}
}

func TestTraiterWebhookInvalide(t *testing.T) {
	InitMidtrans(cleServeurTest)
	db := setupPaiementTestDB(t)
	if err := db.AutoMigrate(&model.TransactionEnLigne{}); err != nil {
		t.Fatalf("migrate transaction: %v", err)
	}

	if err := TraiterWebhook(db, map[string]interface{}{}); err == nil {
		t.Fatal("webhook vide accepté")
	}
	if err := TraiterWebhook(db, notificationSignee("COT-inconnu", "settlement")); err == nil {
		t.Fatal("order_id inconnu accepté")
	}
}
