package scheduler_test

import (
	"testing"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/jobs"
	"vehicle-rental-backend/internal/repository/memory"
	"vehicle-rental-backend/internal/scheduler"
	"vehicle-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runner(cfg config.SchedulerConfig) *jobs.JobRunner {
	return jobs.NewJobRunner(memory.NewStore(), service.NewLogEmailService(), nil, &config.Config{Scheduler: cfg})
}

func TestNewScheduler_RegistersJobs(t *testing.T) {
	s, err := scheduler.NewScheduler(runner(config.SchedulerConfig{
		SendOverdueReminders: "0 0 9 * * *",
		RecordStatusSnapshot: "0 */5 * * * *",
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	s.Start()
	s.Stop()
}

func TestNewScheduler_RejectsBadSchedule(t *testing.T) {
	_, err := scheduler.NewScheduler(runner(config.SchedulerConfig{
		SendOverdueReminders: "every morning",
		RecordStatusSnapshot: "0 */5 * * * *",
	}))
	assert.Error(t, err)
}
