package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"iltizem_backend/internals/configs"
	cotisationService "iltizem_backend/internals/features/cotisations/service"
	notifService "iltizem_backend/internals/features/notifications/service"
)

// Start câble les tâches planifiées du cycle de cotisation:
//   - le 25 à 02h00: génération des cotisations de la période à venir
//   - chaque nuit à 01h00: bascule due -> retard des échéances dépassées
//   - chaque jour à 09h00: envoi des rappels d'impayés, puis relance
//     des envois en échec des tournées précédentes
//
// Chaque entrée est protégée par cron.Recover pour qu'une panique
// n'arrête pas les autres tâches.
func Start(db *gorm.DB, mailer notifService.Mailer, sms notifService.SMSSender, plans configs.PlanCatalog) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := c.AddFunc("0 2 25 * *", func() {
		log.Println("[SCHEDULER] Génération mensuelle des cotisations")
		cotisationService.GenererToutes(db, time.Now())
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("0 1 * * *", func() {
		if _, err := cotisationService.SweepRetards(db, time.Now()); err != nil {
			log.Printf("[SCHEDULER ERROR] Sweep retards: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("0 9 * * *", func() {
		log.Println("[SCHEDULER] Envoi des rappels d'impayés")
		if _, err := notifService.EnvoyerRappels(db, mailer, sms, plans, time.Now(), nil); err != nil {
			log.Printf("[SCHEDULER ERROR] Rappels: %v", err)
		}
		// relance des envois en échec des tournées précédentes
		if _, err := notifService.RetenterEchecs(db, mailer, sms, nil); err != nil {
			log.Printf("[SCHEDULER ERROR] Relance des échecs: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Println("✅ Scheduler cotisations démarré")
	return c, nil
}
