package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "memberhub-backend/internal/api/http"
	"memberhub-backend/internal/app"
	"memberhub-backend/internal/config"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/payment"
	"memberhub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting MemberHub API server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "database", cfg.Database.Driver, "auth", cfg.Auth.Provider)

	ctx := context.Background()
	boot := app.New(cfg)

	// Initialize store
	store, err := boot.OpenStore(ctx)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	// Initialize security
	authn, login, err := boot.Authenticator(ctx)
	if err != nil {
		logger.Error("Failed to initialize authentication", "error", err)
		log.Fatalf("Failed to initialize authentication: %v", err)
	}

	// Payment stays nil when disabled so checkout degrades to "not available"
	var provider payment.Provider
	if cfg.Payment.Enabled {
		provider = payment.NewHTTPProvider(cfg.Payment)
		logger.Info("Payment provider enabled", "base_url", cfg.Payment.BaseURL)
	}

	// Initialize services
	notifier := service.NewNotificationService(store.Mail(), cfg.Email)
	planSvc := service.NewPlanService(store.Plans())
	memberSvc := service.NewMemberService(store.Members())
	membershipSvc := service.NewMembershipService(
		store.Applications(),
		store.Members(),
		store.Plans(),
		notifier,
		service.WithPaymentRequired(cfg.Membership.RequirePaymentForApproval),
	)
	paymentSvc := service.NewPaymentService(
		store.Applications(),
		store.Plans(),
		provider,
		cfg.Payment.SuccessURL,
		cfg.Payment.CancelURL,
	)

	if cfg.Membership.SeedDefaultPlans {
		added, err := planSvc.SeedDefaultPlans(ctx, cfg.Membership.DefaultCurrency)
		if err != nil {
			logger.Error("Failed to seed default plans", "error", err)
		} else {
			logger.Info("Default plans seeded", "added", added)
		}
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Memberships: membershipSvc,
		Plans:       planSvc,
		Members:     memberSvc,
		Payments:    paymentSvc,
		Auth:        authn,
		Login:       login,
		MetricsPath: metricsPath,
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
