package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	httpapi "vehicle-rental-backend/internal/api/http"
	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/jobs"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/metrics"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/repository/postgres"
	"vehicle-rental-backend/internal/scheduler"
	"vehicle-rental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-overdue-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting reservation cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db, postgres.WithLockTimeout(cfg.LockTimeout()))

	var emailService service.EmailService = service.NewLogEmailService()
	if cfg.Email.SendGridAPIKey != "" {
		emailService = service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.SendGridHost, cfg.Email.From, cfg.Email.FromName)
	}

	// Initialize Job Runner
	jobRunner, metricsHandler := newJobRunner(cfg, store, emailService)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to register jobs: %v", err)
	}

	// Serve the job gauges for scraping
	errCh := make(chan error, 1)
	var metricsServer *http.Server
	if metricsHandler != nil {
		metricsServer = &http.Server{Addr: cfg.GetMetricsAddress(), Handler: metricsHandler}
		if _, err := httpapi.Start(metricsServer, "metrics", errCh); err != nil {
			logger.Error("Failed to listen", "error", err, "address", metricsServer.Addr)
			log.Fatalf("Failed to listen: %v", err)
		}
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errCh:
		logger.Error("Metrics server error", "error", err)
	}

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := metricsServer.Shutdown(ctx); err != nil {
			logger.Error("Metrics shutdown failed", "error", err)
		}
	}
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// newJobRunner builds the runner and, when metrics are enabled, the handler that
// exposes its gauges. The handler is nil when metrics are disabled.
func newJobRunner(cfg *config.Config, store repository.Store, email service.EmailService) (*jobs.JobRunner, http.Handler) {
	if !cfg.Metrics.Enabled {
		return jobs.NewJobRunner(store, email, nil, cfg), nil
	}
	m := metrics.New(cfg.Metrics.Namespace)
	return jobs.NewJobRunner(store, email, m, cfg), httpapi.NewMetricsRouter(m, store)
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-overdue-reminders":
		jobRunner.SendOverdueReminders()
	case "record-status-snapshot":
		jobRunner.RecordStatusSnapshot()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-overdue-reminders\n")
		fmt.Printf("  - record-status-snapshot\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
