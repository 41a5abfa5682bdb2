package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "vehicle-rental-backend/internal/api/grpc"
	httpapi "vehicle-rental-backend/internal/api/http"
	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/events"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/metrics"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/repository/memory"
	"vehicle-rental-backend/internal/repository/postgres"
	"vehicle-rental-backend/internal/security"
	"vehicle-rental-backend/internal/service"

	_ "github.com/lib/pq"
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
	logger.Info("Starting vehicle rental reservations backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_port", cfg.Server.GRPCPort)

	// Initialize Store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", "driver", cfg.Database.Driver, "error", err)
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer closeStore()

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.SendGridAPIKey != "" {
		logger.Info("Using SendGrid email service", "from", cfg.Email.From)
		emailSvc = service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.SendGridHost, cfg.Email.From, cfg.Email.FromName)
	} else {
		logger.Info("No SendGrid API key, emails will only be logged")
		emailSvc = service.NewLogEmailService()
	}

	// Initialize Event Publisher
	var publisher service.EventPublisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", "error", err)
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = amqpPublisher
		logger.Info("Publishing reservation events", "exchange", cfg.Events.Exchange)
	}
	defer publisher.Close()

	// Initialize Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	// Initialize Services
	reservationSvc := service.NewReservationService(store, emailSvc, publisher, service.WithMetrics(m))
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, 0)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Service:      reservationSvc,
		TokenManager: tokenManager,
		Store:        store,
		Metrics:      m,
	})
	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 2)

	// Set up gRPC health server
	var healthSrv *grpcapi.HealthServer
	if cfg.Server.GRPCPort > 0 {
		lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
			log.Fatalf("Failed to listen: %v", err)
		}
		healthSrv = grpcapi.NewHealthServer()
		go func() {
			if err := healthSrv.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	// Health flips to SERVING only once the API listener is bound
	if _, err := httpapi.Start(httpServer, "api", errCh); err != nil {
		logger.Error("Failed to listen", "error", err, "address", httpServer.Addr)
		log.Fatalf("Failed to listen: %v", err)
	}

	if healthSrv != nil {
		healthSrv.SetServing(true)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	// Graceful shutdown
	if healthSrv != nil {
		healthSrv.SetServing(false)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	if healthSrv != nil {
		healthSrv.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}

// openStore builds the configured reservation store and a matching close function.
func openStore(cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		if cfg.Database.SeedFile != "" {
			if err := store.LoadSeed(cfg.Database.SeedFile); err != nil {
				return nil, nil, err
			}
			logger.Info("Loaded seed data", "file", cfg.Database.SeedFile)
		}
		logger.Warn("Using in-memory store, data is lost on restart")
		return store, func() {}, nil

	default:
		logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, err
		}
		if cfg.Database.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Test database connection
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database connection established")

		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		return postgres.NewStore(db, postgres.WithLockTimeout(cfg.LockTimeout())), func() { db.Close() }, nil
	}
}
