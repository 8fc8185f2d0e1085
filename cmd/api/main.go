package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"computop-gateway/config"
	httpHandler "computop-gateway/internal/adapter/http/handler"
	pgStorage "computop-gateway/internal/adapter/storage/postgres"
	redisStorage "computop-gateway/internal/adapter/storage/redis"
	"computop-gateway/internal/core/domain"
	"computop-gateway/internal/core/ports"
	"computop-gateway/internal/service"
	"computop-gateway/pkg/logger"
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
		Msg("Starting Computop gateway callback service")

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
	orderRepo := pgStorage.NewOrderRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	credsRepo := pgStorage.NewCredentialsRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	dedupStore := redisStorage.NewDedupStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize protocol services
	cipherSvc := service.NewBlowfishCipherService()
	macSvc := service.NewHMACService()
	registry := domain.NewPayMethodRegistry(domain.DefaultPayMethods())

	// Initialize business services
	verifier := service.NewVerifierService(cipherSvc, macSvc, logger.Component(log, "verifier"))
	applier := service.NewApplierService(paymentRepo, orderRepo, transactor, logger.Component(log, "applier"))
	checkoutSvc := service.NewCheckoutService(
		orderRepo, paymentRepo, credsRepo, transactor,
		cipherSvc, macSvc, registry,
		service.CheckoutConfig{
			GatewayBaseURL:  cfg.Gateway.BaseURL,
			ServerBaseURL:   cfg.Server.BaseURL,
			DefaultLanguage: cfg.Gateway.DefaultLanguage,
			Simulation:      cfg.Gateway.Simulation,
		},
		logger.Component(log, "checkout"),
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		CheckoutSvc:    checkoutSvc,
		Verifier:       verifier,
		Applier:        applier,
		OrderRepo:      orderRepo,
		PaymentRepo:    paymentRepo,
		CredsRepo:      credsRepo,
		Dedup:          dedupStore,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		OrderBaseURL:   cfg.Server.BaseURL,
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
