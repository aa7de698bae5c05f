package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"dilsedaan-backend/internal/config"
	"dilsedaan-backend/internal/jobs"
	"dilsedaan-backend/internal/logger"
	"dilsedaan-backend/internal/repository/postgres"
	"dilsedaan-backend/internal/scheduler"
	"dilsedaan-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'process-recurring-donations', 'all-daily')")
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
	logger.Info("Starting DilSeDaan Cronjob Runner...", "log_level", cfg.Log.Level)

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

	jobServices := &jobs.Services{
		Recurring:  recurringService,
		Withdrawal: withdrawalService,
		Email:      emailService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "process-recurring-donations":
		jobRunner.ProcessRecurringDonations()
	case "send-urgent-withdrawal-reminders":
		jobRunner.SendUrgentWithdrawalReminders()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - process-recurring-donations\n")
		fmt.Printf("  - send-urgent-withdrawal-reminders\n")
		fmt.Printf("  - all-daily\n")
		os.Exit(1)
	}
}
