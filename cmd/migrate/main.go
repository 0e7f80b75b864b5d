// Command migrate applies the item table migrations for STORAGE_BACKEND=postgres.
package main

import (
	"log/slog"
	"os"

	itemmigrations "github.com/ghuser/catalog/migrations/item"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	if err := migrator.RunMigrations(cfg.DatabaseURL, itemmigrations.FS); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")
}
