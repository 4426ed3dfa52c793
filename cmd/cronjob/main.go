package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"memberhub-backend/internal/app"
	"memberhub-backend/internal/config"
	"memberhub-backend/internal/email"
	"memberhub-backend/internal/jobs"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/scheduler"
	"memberhub-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (expire-memberships, send-expiry-reminders, deliver-mail, all)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting MemberHub cron runner...", "log_level", cfg.Log.Level, "database", cfg.Database.Driver)

	ctx := context.Background()
	store, err := app.New(cfg).OpenStore(ctx)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	// Initialize services
	notifier := service.NewNotificationService(store.Mail(), cfg.Email)
	membershipSvc := service.NewMembershipService(
		store.Applications(),
		store.Members(),
		store.Plans(),
		notifier,
		service.WithPaymentRequired(cfg.Membership.RequirePaymentForApproval),
	)
	sender := email.NewSender(cfg.Email)

	// Optional cross-replica lock
	var locker jobs.Locker
	if cfg.Redis.Addr != "" {
		redisLocker, err := scheduler.NewRedisLocker(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, jobs run without a lock", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer redisLocker.Close()
			locker = redisLocker
			logger.Info("Job lock enabled", "addr", cfg.Redis.Addr)
		}
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(membershipSvc, store.Mail(), sender, locker, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			fmt.Printf("  - %s\n", jobs.JobExpireMemberships)
			fmt.Printf("  - %s\n", jobs.JobSendExpiryReminders)
			fmt.Printf("  - %s\n", jobs.JobDeliverMail)
			fmt.Printf("  - all\n")
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cron scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cron scheduler...")
	cronScheduler.Stop()
	logger.Info("Cron scheduler stopped. Goodbye!")
}
