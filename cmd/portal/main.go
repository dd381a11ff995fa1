package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sorgulen/tjenesteportal/internal/config"
	"github.com/sorgulen/tjenesteportal/internal/http/handler"
	"github.com/sorgulen/tjenesteportal/internal/http/middleware"
	"github.com/sorgulen/tjenesteportal/internal/http/router"
	"github.com/sorgulen/tjenesteportal/internal/identity"
	"github.com/sorgulen/tjenesteportal/internal/jobs"
	"github.com/sorgulen/tjenesteportal/internal/logger"
	"github.com/sorgulen/tjenesteportal/internal/orderapi"
	"github.com/sorgulen/tjenesteportal/internal/weather"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Upstream clients
	orderAPI := orderapi.NewClient(&cfg.OrderAPI)
	identityClient := identity.NewClient(&cfg.Identity)
	tokenValidator := identity.NewTokenValidator(&cfg.Identity)
	gate := identity.NewGate(identityClient, tokenValidator, log)

	log.Info("Order API client configured", zap.String("base_url", cfg.OrderAPI.BaseURL))

	// Weather feed backed by the simulated provider
	provider := weather.NewMockProvider()
	feed := weather.NewFeed(provider, cfg.Weather.Location, log)

	// Initialize and start scheduler for background jobs
	scheduler := jobs.NewScheduler(log)
	refreshExpr := fmt.Sprintf("@every %s", cfg.Weather.RefreshIntervalDuration())
	if err := jobs.RegisterWeatherRefreshJob(
		scheduler,
		feed,
		log,
		refreshExpr,
		jobs.DefaultRefreshTimeout,
		true, // populate the cache before the first request
	); err != nil {
		return fmt.Errorf("failed to register weather refresh job: %w", err)
	}
	scheduler.Start()
	log.Info("Scheduler started with weather refresh job",
		zap.String("cron_expr", refreshExpr),
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuth(tokenValidator, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	orderHandler := handler.NewOrderHandler(orderAPI, log)
	adminOrderHandler := handler.NewAdminOrderHandler(orderAPI, log)
	authHandler := handler.NewAuthHandler(gate, log)
	weatherHandler := handler.NewWeatherHandler(feed, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		orderAPI,
		authMiddleware,
		rateLimiter,
		orderHandler,
		adminOrderHandler,
		authHandler,
		weatherHandler,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler
		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
