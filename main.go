package main

import (
	"context"
	"log"

	"growthlens/adapters/postgres"
	"growthlens/internal"
	"growthlens/internal/config"
	"growthlens/internal/ops"
	"growthlens/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	// Upload history is optional; without DATABASE_URL the dashboard
	// simply skips the history panel.
	var history *postgres.UploadRepository
	if cfg.Database.URL != "" {
		history, err = postgres.Connect(context.Background(), cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer history.Close()
		logger.Info("Upload history enabled")
	}

	server, err := ui.NewServer(cfg, logger, history)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if cfg.Ops.Enabled {
		opsServer := ops.NewServer(logger, func() bool { return true })
		go func() {
			if err := opsServer.Start(":" + cfg.Ops.Port); err != nil {
				logger.Error("ops server failed: %v", err)
			}
		}()
	}

	log.Fatal(server.Start())
}
