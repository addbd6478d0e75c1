// Package main provides the entry point for the stats sync daemon. It keeps
// the aggregated stat table fresh on a cron schedule and exposes health
// probes and Prometheus metrics.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/set-predictor/internal/cache"
	"github.com/yourusername/set-predictor/internal/config"
	"github.com/yourusername/set-predictor/internal/database"
	"github.com/yourusername/set-predictor/internal/datasource"
	"github.com/yourusername/set-predictor/internal/health"
	"github.com/yourusername/set-predictor/internal/logger"
	"github.com/yourusername/set-predictor/internal/metrics"
	"github.com/yourusername/set-predictor/internal/repository"
	"github.com/yourusername/set-predictor/internal/scheduler"
	"github.com/yourusername/set-predictor/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadWithDefaults(os.Getenv("SET_PREDICTOR_CONFIG_PATH"))
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
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		log.Fatalf("Invalid configuration for %s: %v", cfg.App.Environment, err)
	}
	if !cfg.Schedule.Enabled {
		log.Fatalf("schedule.enabled must be true for the stats sync daemon")
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
		"source":      cfg.DataSource.Type,
	}).Info("Stats sync starting")

	metrics.InitRegistry()

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to connect to database")
		}
		defer db.Close()
		appLog.Info("Database connection established")
	}
	repos := repository.NewRepositories(db)

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfigFrom(cfg.DataSource), appLog)
	defer httpClient.Close()

	source, err := datasource.NewFactory(appLog).NewMatchSource(cfg.DataSource, httpClient)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create match source")
	}

	svc := service.NewPredictorService(
		source,
		repos.Overrides,
		cache.NewStatCache(cfg.CacheTTL(), cfg.CacheCleanupInterval()),
		service.DefaultOptions(),
		appLog,
	)

	sched := scheduler.NewScheduler(svc, appLog)
	if err := sched.ScheduleStatsRefresh(cfg.Schedule.StatsRefresh); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule stats refresh")
	}

	// Probes and metrics. Metrics get their own listener when the ports differ.
	var healthSrv *health.Server
	if cfg.Health.Enabled {
		hc := health.Config{
			ServiceName: "stats-sync",
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(cfg.Health.Port),
			Logger:      appLog,
			Stats:       svc,
		}
		if db != nil {
			hc.DB = db
		}
		healthSrv = health.NewServer(hc)
		if err := healthSrv.Start(ctx); err != nil {
			appLog.WithError(err).Fatal("Failed to start health server")
		}
	}
	var metricsSrv *health.Server
	if cfg.Metrics.Enabled {
		metricsSrv = health.NewServer(health.Config{
			ServiceName: "stats-sync-metrics",
			Port:        strconv.Itoa(cfg.Metrics.Port),
			Logger:      appLog,
			Metrics:     metrics.Handler(),
			MetricsPath: cfg.Metrics.Path,
		})
		if err := metricsSrv.Start(ctx); err != nil {
			appLog.WithError(err).Fatal("Failed to start metrics server")
		}
	}

	if cfg.Schedule.RunOnStart {
		sched.RunRefresh(ctx)
	}

	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	if healthSrv != nil {
		healthSrv.SetReady(true)
	}

	appLog.WithFields(logrus.Fields{
		"cron":     cfg.Schedule.StatsRefresh,
		"next_run": sched.GetNextRun(),
	}).Info("Stats sync running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	if healthSrv != nil {
		healthSrv.SetReady(false)
	}
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	for _, srv := range []*health.Server{healthSrv, metricsSrv} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(); err != nil {
			appLog.WithError(err).Warn("Server shutdown failed")
		}
	}
	cancel()

	appLog.Info("Stats sync shut down successfully")
}
