package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholarpay/config"
	httpHandler "scholarpay/internal/adapter/http/handler"
	pgStorage "scholarpay/internal/adapter/storage/postgres"
	redisStorage "scholarpay/internal/adapter/storage/redis"
	"scholarpay/internal/core/ports"
	"scholarpay/internal/provider"
	"scholarpay/internal/service"
	"scholarpay/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting ScholarPay payment core")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	txRepo := pgStorage.NewTransactionRepo(pool)
	refundRepo := pgStorage.NewRefundRepo(pool)
	eventRepo := pgStorage.NewWebhookEventRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	eventCache := redisStorage.NewEventCache(rdb)

	// Build the provider registry from configuration
	registry, err := provider.Build(cfg.Providers)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build provider registry")
	}
	for _, adapter := range registry.InOrder() {
		probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := adapter.Initialize(probeCtx); err != nil {
			// A gateway that is down at boot is skipped by the failover
			// chain at request time; startup does not depend on it.
			log.Warn().Err(err).Str("provider", adapter.Name()).Msg("Provider initialization probe failed")
		} else {
			log.Info().Str("provider", adapter.Name()).Msg("Provider initialized")
		}
		cancel()
	}

	// Initialize core services
	assessor, err := service.NewFraudAssessor(cfg.Fraud)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize fraud assessor")
	}
	orchestrator := service.NewOrchestrator(
		registry,
		txRepo,
		refundRepo,
		assessor,
		transactor,
		cfg.Orchestrator.RetryDelay,
		log,
	)
	reconciler := service.NewReconciler(registry, txRepo, eventRepo, eventCache, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Orchestrator:   orchestrator,
		Assessor:       assessor,
		Reconciler:     reconciler,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
