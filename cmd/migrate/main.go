package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/healthsms/golang_services/internal/platform/config"
	"github.com/healthsms/golang_services/internal/platform/database"
	"github.com/healthsms/golang_services/internal/platform/logger"
)

func main() {
	action := flag.String("action", "up", "migration action: up, down or version")
	flag.Parse()

	cfg, err := config.Load("migrate")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	appLogger := logger.New(cfg.LogLevel)

	migrator, err := database.NewMigrator(cfg.PostgresDSN, appLogger)
	if err != nil {
		appLogger.Error("Failed to create migrator", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			appLogger.Warn("Failed to close migrator", "error", err)
		}
	}()

	switch *action {
	case "up":
		err = migrator.Up()
	case "down":
		err = migrator.Down()
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = migrator.Version()
		if err == nil {
			appLogger.Info("Schema version", "version", version, "dirty", dirty)
		}
	default:
		appLogger.Error("Unknown action", "action", *action)
		os.Exit(2)
	}
	if err != nil {
		appLogger.Error("Migration failed", "action", *action, "error", err)
		os.Exit(1)
	}
}
