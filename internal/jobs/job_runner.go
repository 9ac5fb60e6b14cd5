package jobs

import (
	"time"

	"fleet-rental-backend/internal/config"
	"fleet-rental-backend/internal/logger"
	"fleet-rental-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Rental service.RentalService
}

// NewJobRunner creates a new job runner with all dependencies. A nil clock means time.Now.
func NewJobRunner(services *Services, cfg *config.Config, now func() time.Time) *JobRunner {
	if now == nil {
		now = time.Now
	}
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      now,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = &PanicError{Job: jobName, Value: r}
		}
	}()

	logger.Info("Starting job", "job", jobName)
	started := time.Now()
	if err := jobFunc(); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(started))
	return nil
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution) and returns
// the first failure.
func (jr *JobRunner) RunAllNightlyJobs() error {
	return jr.ReportOverdueRentalsOnce()
}
