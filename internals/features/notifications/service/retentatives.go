package service

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/features/notifications/model"
)

// MaxTentativesEnvoi borne le nombre d'envois par notification: au-delà,
// l'échec est définitif et la ligne sort du circuit de relance.
const MaxTentativesEnvoi = 3

// ResultatRetentatives résume une passe de relance des envois en échec.
type ResultatRetentatives struct {
	Eligibles int `json:"eligibles"`
	Envoyes   int `json:"envoyes"`
	Echecs    int `json:"echecs"`
}

// RetenterEchecs renvoie les notifications en échec qui n'ont pas épuisé
// leurs tentatives, depuis le corps conservé dans le journal. Chaque ligne
// est traitée indépendamment: un nouvel échec incrémente le compteur et la
// ligne reste relançable tant que la borne n'est pas atteinte.
func RetenterEchecs(db *gorm.DB, mailer Mailer, sms SMSSender, associationID *uuid.UUID) (*ResultatRetentatives, error) {
	tx := db.Where("log_statut = ? AND log_tentatives < ?", model.EnvoiEchoue, MaxTentativesEnvoi)
	if associationID != nil {
		tx = tx.Where("log_association_id = ?", *associationID)
	}
	var rows []model.NotificationLog
	if err := tx.Order("log_created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	res := &ResultatRetentatives{Eligibles: len(rows)}
	for _, row := range rows {
		var envoyErr error
		switch row.LogCanal {
		case model.CanalSMS:
			envoyErr = sms.Envoyer(row.LogDestinataire, row.LogCorps)
		default:
			envoyErr = mailer.Envoyer(row.LogDestinataire, row.LogSujet, row.LogCorps)
		}

		maj := map[string]interface{}{"log_tentatives": row.LogTentatives + 1}
		if envoyErr != nil {
			msg := envoyErr.Error()
			maj["log_erreur"] = msg
			res.Echecs++
		} else {
			maj["log_statut"] = model.EnvoiReussi
			maj["log_erreur"] = nil
			res.Envoyes++
		}
		if err := db.Model(&model.NotificationLog{}).
			Where("log_id = ?", row.LogID).
			Updates(maj).Error; err != nil {
			log.Printf("[NOTIF ERROR] Mise à jour du log %s: %v", row.LogID, err)
		}
	}

	if res.Eligibles > 0 {
		log.Printf("[NOTIF] Relance des échecs: %d éligibles, %d envoyés, %d toujours en échec",
			res.Eligibles, res.Envoyes, res.Echecs)
	}
	return res, nil
}
