package service

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"iltizem_backend/internals/features/notifications/model"
)

func seedLogEchec(t *testing.T, db *gorm.DB, assocID uuid.UUID, canal, destinataire string, tentatives int) model.NotificationLog {
	erreur := "SMTP injoignable"
	row := model.NotificationLog{
		LogAssociationID: &assocID,
		LogCode:          model.CodeRappelImpaye,
		LogCanal:         canal,
		LogDestinataire:  destinataire,
		LogSujet:         "Rappel de cotisation",
		LogCorps:         "Votre cotisation 2025-05 est en attente de règlement.",
		LogStatut:        model.EnvoiEchoue,
		LogErreur:        &erreur,
		LogTentatives:    tentatives,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create log échec: %v", err)
	}
	return row
}

func TestRetenterEchecs(t *testing.T) {
	db := setupRappelsTestDB(t)
	assocID := uuid.New()

	email := seedLogEchec(t, db, assocID, model.CanalEmail, "karim@example.com", 1)
	texto := seedLogEchec(t, db, assocID, model.CanalSMS, "0550123456", 2)
	// échec définitif: la borne de tentatives est atteinte
	epuise := seedLogEchec(t, db, assocID, model.CanalEmail, "sofiane@example.com", MaxTentativesEnvoi)
	// déjà envoyé: hors circuit de relance
	if err := db.Create(&model.NotificationLog{
		LogAssociationID: &assocID,
		LogCode:          model.CodeRappelImpaye,
		LogCanal:         model.CanalEmail,
		LogDestinataire:  "amine@example.com",
		LogStatut:        model.EnvoiReussi,
		LogTentatives:    1,
	}).Error; err != nil {
		t.Fatalf("create log envoyé: %v", err)
	}

	mailer := &fauxMailer{}
	sms := &fauxSMS{}
	res, err := RetenterEchecs(db, mailer, sms, nil)
	if err != nil {
		t.Fatalf("relance: %v", err)
	}
	if res.Eligibles != 2 || res.Envoyes != 2 || res.Echecs != 0 {
		t.Fatalf("résultat inattendu: %+v", res)
	}
	if len(mailer.envois) != 1 || mailer.envois[0].destinataire != "karim@example.com" {
		t.Fatalf("renvoi email inattendu: %+v", mailer.envois)
	}
	if mailer.envois[0].corps != email.LogCorps {
		t.Fatalf("le corps conservé n'est pas réutilisé: %q", mailer.envois[0].corps)
	}
	if len(sms.envois) != 1 || sms.envois[0].destinataire != "0550123456" {
		t.Fatalf("renvoi SMS inattendu: %+v", sms.envois)
	}

	var lue model.NotificationLog
	if err := db.First(&lue, "log_id = ?", email.LogID).Error; err != nil {
		t.Fatalf("relecture log email: %v", err)
	}
	if lue.LogStatut != model.EnvoiReussi || lue.LogTentatives != 2 || lue.LogErreur != nil {
		t.Fatalf("log email non soldé: %+v", lue)
	}
	if err := db.First(&lue, "log_id = ?", texto.LogID).Error; err != nil {
		t.Fatalf("relecture log SMS: %v", err)
	}
	if lue.LogStatut != model.EnvoiReussi || lue.LogTentatives != 3 {
		t.Fatalf("log SMS non soldé: %+v", lue)
	}

	// la ligne épuisée n'a pas été touchée
	if err := db.First(&lue, "log_id = ?", epuise.LogID).Error; err != nil {
		t.Fatalf("relecture log épuisé: %v", err)
	}
	if lue.LogStatut != model.EnvoiEchoue || lue.LogTentatives != MaxTentativesEnvoi {
		t.Fatalf("log épuisé relancé à tort: %+v", lue)
	}
}

func TestRetenterEchecsEpuiseLesTentatives(t *testing.T) {
	db := setupRappelsTestDB(t)
	assocID := uuid.New()
	row := seedLogEchec(t, db, assocID, model.CanalEmail, "karim@example.com", 1)

	mailer := &fauxMailer{panne: true}
	sms := &fauxSMS{}

	// deux relances en panne: 1 -> 2 -> 3, la borne est atteinte
	for i := 0; i < 2; i++ {
		res, err := RetenterEchecs(db, mailer, sms, nil)
		if err != nil {
			t.Fatalf("relance %d: %v", i+1, err)
		}
		if res.Eligibles != 1 || res.Echecs != 1 {
			t.Fatalf("relance %d inattendue: %+v", i+1, res)
		}
	}

	var lue model.NotificationLog
	if err := db.First(&lue, "log_id = ?", row.LogID).Error; err != nil {
		t.Fatalf("relecture: %v", err)
	}
	if lue.LogStatut != model.EnvoiEchoue || lue.LogTentatives != MaxTentativesEnvoi {
		t.Fatalf("compteur de tentatives inattendu: %+v", lue)
	}

	// la borne atteinte, plus aucune ligne éligible
	res, err := RetenterEchecs(db, mailer, sms, nil)
	if err != nil {
		t.Fatalf("relance finale: %v", err)
	}
	if res.Eligibles != 0 {
		t.Fatalf("ligne épuisée encore éligible: %+v", res)
	}
}

func TestRetenterEchecsFiltreAssociation(t *testing.T) {
	db := setupRappelsTestDB(t)
	cible := uuid.New()
	autre := uuid.New()
	seedLogEchec(t, db, cible, model.CanalEmail, "karim@example.com", 1)
	seedLogEchec(t, db, autre, model.CanalEmail, "lina@example.com", 1)

	mailer := &fauxMailer{}
	res, err := RetenterEchecs(db, mailer, &fauxSMS{}, &cible)
	if err != nil {
		t.Fatalf("relance: %v", err)
	}
	if res.Eligibles != 1 || len(mailer.envois) != 1 || mailer.envois[0].destinataire != "karim@example.com" {
		t.Fatalf("le périmètre association n'est pas respecté: %+v / %+v", res, mailer.envois)
	}
}
