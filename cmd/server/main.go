// Package main is the entry point for the fieldops API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fieldops/internal/config"
	"fieldops/internal/domain/assets"
	"fieldops/internal/domain/auth"
	"fieldops/internal/domain/clients"
	"fieldops/internal/domain/meters"
	"fieldops/internal/domain/tickets"
	v1 "fieldops/internal/infrastructure/http/v1"
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

	ctx := context.Background()
	log.Infow("starting fieldops server", "env", cfg.App.Env)

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(cfg.Postgres.DSN, cfg.Postgres.MigrationsDir); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
		log.Info("database migrations applied")
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}
	if cfg.Postgres.MaxConnIdle > 0 {
		poolCfg.MaxConnIdleTime = cfg.Postgres.MaxConnIdle
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	clientRepo := postgres.NewClientRepo(txManager)
	assetRepo := postgres.NewAssetRepo(txManager)
	ticketRepo := postgres.NewTicketRepo(txManager)
	meterRepo := postgres.NewMeterRepo(txManager)
	userRepo := postgres.NewUserRepo(txManager)
	sequencer := postgres.NewTicketSequencer(txManager)

	auditLog, err := postgres.NewAuditRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit log", "error", err)
	}

	tariffTable, err := cfg.TariffTable()
	if err != nil {
		log.Fatalw("invalid tariff configuration", "error", err)
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL,
		Issuer: cfg.Auth.Issuer,
	})

	authService := auth.NewService(userRepo, jwtService)
	clientService := clients.NewService(clientRepo, txManager)
	assetService := assets.NewService(assetRepo, clientRepo, txManager)
	ticketService := tickets.NewService(ticketRepo, sequencer, clientRepo, assetRepo, txManager, tariffTable, auditLog)
	meterService := meters.NewService(meterRepo, assetRepo, txManager)

	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool.Pool,
		Logger:         log,
		JWTValidator:   jwtService,
		MetricsEnabled: cfg.Metrics.Enabled,
		AuthService:    authService,
		ClientService:  clientService,
		AssetService:   assetService,
		TicketService:  ticketService,
		MeterService:   meterService,
		AuditLog:       auditLog,
	})

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     router,
		ReadTimeout: cfg.HTTP.ReadTimeout,
	}

	go func() {
		log.Infow("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "error", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
