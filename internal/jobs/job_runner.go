package jobs

import (
	"time"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/metrics"
	"vehicle-rental-backend/internal/repository"
	"vehicle-rental-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs. Jobs only read lifecycle state.
type JobRunner struct {
	store   repository.Store
	email   service.EmailService
	metrics *metrics.Metrics
	config  *config.Config
	now     func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store repository.Store, email service.EmailService, m *metrics.Metrics, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:   store,
		email:   email,
		metrics: m,
		config:  cfg,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock used to decide what is overdue.
func (jr *JobRunner) WithClock(now func() time.Time) *JobRunner {
	jr.now = now
	return jr
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SendOverdueReminders()
	jr.RecordStatusSnapshot()
}
