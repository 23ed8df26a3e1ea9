// Package main is the entry point for the fieldops notification
// scheduler. It runs the periodic contract-expiry, rental-expiry and
// meter-due scans against the same database as the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fieldops/internal/config"
	"fieldops/internal/domain/scheduler"
	"fieldops/internal/infrastructure/metrics"
	"fieldops/internal/infrastructure/notify"
	"fieldops/internal/infrastructure/storage/postgres"
	"fieldops/pkg/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("APP_CONFIG"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Infow("starting fieldops scheduler", "env", cfg.App.Env)

	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	// Three sequential scans need far fewer connections than the API.
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	scanRepo := postgres.NewScanRepo(txManager)

	notifier := notify.FromConfig(notify.Config{
		Enabled:  cfg.Notify.Enabled,
		Host:     cfg.Notify.Host,
		Port:     cfg.Notify.Port,
		Username: cfg.Notify.Username,
		Password: cfg.Notify.Password,
		From:     cfg.Notify.From,
	})
	dedup := notify.NewDedup(cfg.Notify.DedupTTL)

	jobs := scheduler.NewJobs(scanRepo, notifier, dedup)
	runner := scheduler.NewRunner(jobs)
	if cfg.Metrics.Enabled {
		runner.OnComplete = func(jobID string, sent int) {
			metrics.NotificationsSent.WithLabelValues(jobID).Add(float64(sent))
		}
	}

	runner.Start(ctx)
	log.Info("scheduler stopped")
}
