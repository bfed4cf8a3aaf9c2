package service

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	cotisationModel "iltizem_backend/internals/features/cotisations/cotisations/model"
	"iltizem_backend/internals/features/paiements/model"
	userModel "iltizem_backend/internals/features/users/user/model"
)

var ErrSignatureInvalide = errors.New("signature du webhook invalide")

var (
	SnapClient        snap.Client
	midtransServerKey string
)

// InitMidtrans initialise le client Snap avec la clé serveur, conservée
// aussi pour vérifier la signature des notifications entrantes.
func InitMidtrans(serverKey string) {
	midtransServerKey = serverKey
	SnapClient.New(serverKey, midtrans.Sandbox)
}

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

// CreerTransactionEnLigne ouvre une session de paiement chez le prestataire
// pour une cotisation impayée et renvoie la transaction avec son snap token.
func CreerTransactionEnLigne(db *gorm.DB, userID uuid.UUID, cotisationID uuid.UUID) (*model.TransactionEnLigne, error) {
	var cot cotisationModel.CotisationModel
	if err := db.First(&cot, "cotisation_id = ?", cotisationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCotisationIntrouvable
		}
		return nil, err
	}
	if cotisationModel.EstTerminal(cot.CotisationStatut) {
		return nil, ErrCotisationTerminale
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	trx := model.TransactionEnLigne{
		TransactionAssociationID: cot.CotisationAssociationID,
		TransactionCotisationID:  cot.CotisationID,
		TransactionUserID:        userID,
		TransactionOrderID:       fmt.Sprintf("COT-%s", uuid.New().String()),
		TransactionMontant:       cot.CotisationMontant,
		TransactionStatut:        model.TransactionEnAttente,
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  trx.TransactionOrderID,
			GrossAmt: cot.CotisationMontant.IntPart(),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.UserName,
			Email: user.Email,
		},
	}
	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("création de la session de paiement: %w", err)
	}
	trx.TransactionSnapToken = &resp.Token
	trx.TransactionRedirectURL = &resp.RedirectURL

	if err := db.Create(&trx).Error; err != nil {
		return nil, err
	}
	return &trx, nil
}

// TraiterWebhook met à jour la transaction selon la notification du
// prestataire et, en cas de règlement, enregistre le paiement via la même
// réconciliation que les paiements manuels. La signature de la notification
// (SHA512 de order_id + status_code + gross_amount + clé serveur) est
// vérifiée avant toute écriture. Rejouable: un webhook dupliqué sur une
// transaction déjà réglée ne fait rien.
func TraiterWebhook(db *gorm.DB, payload map[string]interface{}) error {
	orderID, _ := payload["order_id"].(string)
	status, _ := payload["transaction_status"].(string)
	if orderID == "" || status == "" {
		return errors.New("webhook incomplet")
	}

	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signature, _ := payload["signature_key"].(string)
	attendu := sha512sum(orderID + statusCode + grossAmount + midtransServerKey)
	if signature == "" || strings.ToLower(signature) != attendu {
		log.Printf("[PAIEMENT] ❌ Signature webhook invalide pour %s", orderID)
		return ErrSignatureInvalide
	}

	var trx model.TransactionEnLigne
	if err := db.First(&trx, "transaction_order_id = ?", orderID).Error; err != nil {
		return fmt.Errorf("transaction %s inconnue", orderID)
	}
	if trx.TransactionStatut == model.TransactionReglee {
		return nil
	}

	switch status {
	case "settlement", "capture":
		res, err := EnregistrerPaiement(db, trx.TransactionAssociationID, SaisiePaiement{
			CotisationID: trx.TransactionCotisationID,
			Methode:      model.MethodeEnLigne,
			Montant:      trx.TransactionMontant,
			Reference:    &trx.TransactionOrderID,
			Date:         time.Now(),
		})
		if err != nil && !errors.Is(err, ErrCotisationTerminale) {
			return err
		}
		if res != nil {
			log.Printf("[PAIEMENT] Règlement en ligne %s -> reçu %s", orderID, res.Paiement.PaiementNumeroRecu)
		}
		return db.Model(&trx).Update("transaction_statut", model.TransactionReglee).Error
	case "expire":
		return db.Model(&trx).Update("transaction_statut", model.TransactionExpiree).Error
	case "deny", "cancel", "failure":
		return db.Model(&trx).Update("transaction_statut", model.TransactionEchouee).Error
	case "pending":
		return nil
	default:
		log.Printf("[PAIEMENT] Statut webhook ignoré: %s (%s)", status, orderID)
		return nil
	}
}
