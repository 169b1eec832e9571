package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"

	"github.com/Adithyanbm/medlens-ai1/db"
	"github.com/Adithyanbm/medlens-ai1/internal/auth"
	"github.com/Adithyanbm/medlens-ai1/internal/config"
	"github.com/Adithyanbm/medlens-ai1/internal/handlers"
	"github.com/Adithyanbm/medlens-ai1/internal/jobs"
	"github.com/Adithyanbm/medlens-ai1/internal/ollama"
	"github.com/Adithyanbm/medlens-ai1/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	database, err := db.Connect(cfg.DatabaseURL)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	retention := jobs.NewRetentionWorker(database)
	scheduler := retention.Start()
	defer scheduler.Stop()

	r := router.New(router.Deps{
		DB:      database,
		Auth:    auth.NewManager(cfg.JWTSecret),
		Ollama:  ollama.NewClient(cfg.Ollama, cfg.Mode == config.ModeDemo),
		Hub:     handlers.NewHub(),
		Origins: cfg.AllowedOrigins,
	})

	log.Printf("MedLens AI listening on port %s in %s mode", cfg.Port, cfg.Mode)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
