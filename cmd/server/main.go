// Package main provides the entry point for the result sharing service.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/quant-share/internal/archive"
	"github.com/yourusername/quant-share/internal/config"
	"github.com/yourusername/quant-share/internal/database"
	"github.com/yourusername/quant-share/internal/logger"
	"github.com/yourusername/quant-share/internal/metrics"
	"github.com/yourusername/quant-share/internal/repository"
	"github.com/yourusername/quant-share/internal/scheduler"
	"github.com/yourusername/quant-share/internal/server"
	"github.com/yourusername/quant-share/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"backend":     cfg.Storage.Backend,
	}).Info("Result sharing service starting")

	// Initialize metrics registry
	metrics.InitRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the result store
	var (
		repos *repository.Repositories
		db    *database.DB
	)
	if cfg.UsesPostgres() {
		db, err = database.NewDB(ctx, &cfg.Database)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()

		repos, err = repository.NewRepositories(db)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize repositories")
		}
		appLog.Info("Database connection established")
	} else {
		repos = repository.NewMemoryRepositories()
		appLog.Info("Using in-memory result store")
	}

	// Initialize the archive when enabled
	var archiver service.Archiver
	var sweeper scheduler.Sweeper
	if cfg.Archive.Enabled {
		fileArchiver, err := archive.NewFileArchiver(cfg.Archive.Directory, cfg.Archive.RetentionDays, appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to initialize archive")
		}
		archiver = fileArchiver
		sweeper = fileArchiver
		appLog.WithField("directory", cfg.Archive.Directory).Info("Archive enabled")
	}

	// Build the sharing facade
	sharingSvc, err := service.NewSharingService(service.SharingServiceConfig{
		Store: repos.Result,
		Scorer: service.NewScoreCalculator(service.ScoreWeights{
			TotalReturn:     cfg.Sharing.ScoreWeights.TotalReturn,
			SharpeRatio:     cfg.Sharing.ScoreWeights.SharpeRatio,
			MaxDrawdown:     cfg.Sharing.ScoreWeights.MaxDrawdown,
			WinRate:         cfg.Sharing.ScoreWeights.WinRate,
			ProfitFactor:    cfg.Sharing.ScoreWeights.ProfitFactor,
			LivePerformance: cfg.Sharing.ScoreWeights.LivePerformance,
			RiskAssessment:  cfg.Sharing.ScoreWeights.RiskAssessment,
		}),
		Thresholds: service.AcceptanceThresholds{
			Enabled:         cfg.Sharing.Thresholds.Enabled,
			MinTotalReturn:  cfg.Sharing.Thresholds.MinTotalReturn,
			MinSharpeRatio:  cfg.Sharing.Thresholds.MinSharpeRatio,
			MaxDrawdown:     cfg.Sharing.Thresholds.MaxDrawdown,
			MinWinRate:      cfg.Sharing.Thresholds.MinWinRate,
			MinProfitFactor: cfg.Sharing.Thresholds.MinProfitFactor,
		},
		Archiver:     archiver,
		Logger:       appLog,
		PageCacheTTL: cfg.GetPageCacheTTL(),
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build sharing service")
	}

	// Background maintenance jobs
	sched := scheduler.NewScheduler(sharingSvc, appLog)
	if sweeper != nil && cfg.Archive.SweepCron != "" {
		if err := sched.ScheduleRetentionSweep(cfg.Archive.SweepCron, sweeper); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule retention sweep")
		}
	}
	if cfg.Metrics.Enabled {
		if err := sched.ScheduleGaugeRefresh(cfg.Metrics.GaugeRefreshSeconds); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule gauge refresh")
		}
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Warn("Scheduler not started")
	}

	// Start the API server
	var pinger server.DatabasePinger
	if db != nil {
		pinger = db
	}
	apiServer, err := server.NewServer(server.Config{
		ServiceName:  cfg.App.Name,
		Version:      Version,
		Addr:         cfg.GetServerAddress(),
		Sharing:      sharingSvc,
		Logger:       appLog,
		DB:           pinger,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build API server")
	}
	if err := apiServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start API server")
	}
	apiServer.SetReady(true)

	// Start the metrics server
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    cfg.GetMetricsAddress(),
			Handler: mux,
		}
		go func() {
			appLog.WithField("addr", metricsServer.Addr).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	appLog.WithFields(logrus.Fields{
		"addr":            cfg.GetServerAddress(),
		"archive_enabled": cfg.Archive.Enabled,
		"metrics_enabled": cfg.Metrics.Enabled,
	}).Info("Result sharing service started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	// Graceful shutdown
	apiServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	if err := apiServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during API server shutdown")
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error during metrics server shutdown")
		}
	}

	appLog.Info("Result sharing service shut down successfully")
}
