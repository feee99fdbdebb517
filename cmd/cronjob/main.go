package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rental-manager/internal/clock"
	"rental-manager/internal/config"
	"rental-manager/internal/jobs"
	"rental-manager/internal/logger"
	"rental-manager/internal/scheduler"
	"rental-manager/internal/service"
	"rental-manager/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to configuration file (YAML)")
	dataFile := flag.String("data", "", "Path to the JSON data file, overrides the configuration")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'refresh-device-statuses', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataFile != "" {
		cfg.Storage.DataFile = *dataFile
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting rental cronjob runner...", "log_level", cfg.Log.Level, "storage", cfg.Storage.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open storage
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage", "error", err)
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer backend.Close()
	logger.Info("Storage opened", "location", backend.Location)

	// Load records and wire services
	registry, err := service.LoadRegistry(ctx, backend.Store)
	if err != nil {
		logger.Error("Failed to load records", "error", err)
		log.Fatalf("Failed to load records: %v", err)
	}

	clk := clock.NewRealClock()
	svcs := service.NewServices(registry, clk, service.Options{
		MaxSearchDays:      cfg.Scheduling.MaxSearchDays,
		PromptFallbackDays: cfg.Scheduling.PromptFallbackDays,
	})

	jobRunner := jobs.NewJobRunner(svcs, clk, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			backend.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	<-ctx.Done()

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped")
}

// runJobOnce runs a specific job once. It reports false for an unknown name.
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "refresh-device-statuses":
		jobRunner.RefreshDeviceStatuses()
	case "report-overdue-rentals":
		jobRunner.ReportOverdueRentals()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - refresh-device-statuses\n")
		fmt.Printf("  - report-overdue-rentals\n")
		fmt.Printf("  - all-nightly\n")
		return false
	}
	return true
}
