// Package main applies the database schema for the result sharing service.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/yourusername/quant-share/internal/config"
	"github.com/yourusername/quant-share/internal/database"
	"github.com/yourusername/quant-share/internal/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	timeout := flag.Duration("timeout", 30*time.Second, "migration timeout")
	flag.Parse()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.UsesPostgres() {
		log.Fatalf("Storage backend is %q; migrations only apply to the postgres backend", cfg.Storage.Backend)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db); err != nil {
		appLog.WithError(err).Fatal("Failed to apply schema")
	}

	appLog.WithField("database", cfg.Database.Name).Info("Schema applied successfully")
}
