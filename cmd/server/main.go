package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	opshttp "dilsedaan-backend/internal/api/http"
	"dilsedaan-backend/internal/config"
	"dilsedaan-backend/internal/logger"
	"dilsedaan-backend/internal/repository/postgres"
	"dilsedaan-backend/internal/security"
	"dilsedaan-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load .env if present so local runs pick up credentials
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DilSeDaan Ops Server...", "log_level", cfg.Log.Level)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailService := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	paymentService := service.NewRazorpayPaymentService(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.BaseURL,
	)

	ledgerService := service.NewLedgerService(
		store.DonationRepository,
		store.WithdrawalRepository,
	)

	recurringService := service.NewRecurringDonationService(
		store.RecurringDonationRepository,
		store.DonationRepository,
		store.CampaignRepository,
		store.UserRepository,
		paymentService,
		emailService,
	)

	withdrawalService := service.NewWithdrawalService(
		store.WithdrawalRepository,
		store.CampaignRepository,
		store.UserRepository,
		ledgerService,
		emailService,
		cfg.Admin.Email,
		cfg.Admin.IDs,
	)

	tokenManager := security.NewTokenManager(cfg.Admin.Secret)

	handler := opshttp.NewOpsHandler(recurringService, withdrawalService, tokenManager)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      handler.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Ops server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Ops server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down ops server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Ops server stopped. Goodbye!")
}
