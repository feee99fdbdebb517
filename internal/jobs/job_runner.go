package jobs

import (
	"context"

	"rental-manager/internal/clock"
	"rental-manager/internal/config"
	"rental-manager/internal/logger"
	"rental-manager/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	registry *service.Registry
	rentals  service.RentalService
	clock    clock.Clock
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(svcs *service.Services, clk clock.Clock, cfg *config.Config) *JobRunner {
	return &JobRunner{
		registry: svcs.Registry,
		rentals:  svcs.Rentals,
		clock:    clk,
		config:   cfg,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(context.Background()); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.RefreshDeviceStatuses()
	jr.ReportOverdueRentals()
}
