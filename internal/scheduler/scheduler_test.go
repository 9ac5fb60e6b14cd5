package scheduler

import (
	"testing"
	"time"

	"fleet-rental-backend/internal/config"
	"fleet-rental-backend/internal/jobs"
	"fleet-rental-backend/internal/repository/memory"
	"fleet-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runner(spec string) *jobs.JobRunner {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{ReportOverdueRentals: spec}}
	rentals := service.NewRentalService(memory.NewStore(), nil, nil)
	return jobs.NewJobRunner(&jobs.Services{Rental: rentals}, cfg, nil)
}

func TestNewScheduler_RegistersOverdueReport(t *testing.T) {
	s, err := NewScheduler(runner("0 0 2 * * *"))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	s.Start()
	defer s.Stop()

	next := s.NextRun()
	assert.Equal(t, time.UTC, next.Location())
	assert.Equal(t, 2, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.Equal(t, 0, next.Second())
}

func TestNewScheduler_BadSpec(t *testing.T) {
	_, err := NewScheduler(runner("not a schedule"))
	assert.ErrorContains(t, err, "ReportOverdueRentals")
}
