package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"iltizem_backend/internals/configs"
	database "iltizem_backend/internals/databases"
	cotisationScheduler "iltizem_backend/internals/features/cotisations/scheduler"
	notifService "iltizem_backend/internals/features/notifications/service"
	paiementService "iltizem_backend/internals/features/paiements/service"
	authScheduler "iltizem_backend/internals/features/users/auth/scheduler"
	middlewares "iltizem_backend/internals/middlewares"
	routes "iltizem_backend/internals/route"
	seeds "iltizem_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON rapide
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middlewares de base + performance
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// timeout HTTP aligné sur le statement_timeout DB
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()
	database.Migrate(database.DB)

	if configs.GetEnv("SEED_ON_BOOT") == "true" {
		seeds.RunAllSeeds(database.DB)
	}

	plans := configs.DefaultPlans()
	mailer := notifService.NewSMTPMailer()
	sms := notifService.NewSMSSender()

	// ✅ Prestataire de paiement en ligne (plan gold)
	paiementService.InitMidtrans(configs.GetEnv("MIDTRANS_SERVER_KEY"))

	// ⏱ tâches planifiées après la DB
	authScheduler.StartBlacklistCleanupScheduler(database.DB)
	cron, err := cotisationScheduler.Start(database.DB, mailer, sms, plans)
	if err != nil {
		log.Fatalf("❌ Échec du démarrage du scheduler: %v", err)
	}

	// ✅ Routes
	routes.BaseRoutes(app)
	routes.SetupRoutes(app, database.DB, plans, mailer, sms)

	// 🔒 timeouts serveur
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// arrêt propre: serveur, cron, pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	cronCtx := cron.Stop()
	<-cronCtx.Done()

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
