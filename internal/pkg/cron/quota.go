package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// QuotaResetter resets used counters for an allocation year.
type QuotaResetter interface {
	ResetUsedForYear(ctx context.Context, year int) (int64, error)
}

// QuotaJobs contains quota ledger maintenance jobs
type QuotaJobs struct {
	resetter QuotaResetter

	mu       sync.Mutex
	lastYear int
}

// NewQuotaJobs creates quota cron jobs
func NewQuotaJobs(resetter QuotaResetter) *QuotaJobs {
	return &QuotaJobs{
		resetter: resetter,
		lastYear: time.Now().Year(),
	}
}

// RegisterJobs registers all quota-related cron jobs
func (j *QuotaJobs) RegisterJobs(scheduler *Scheduler) {
	// Check hourly whether the allocation year rolled over
	scheduler.AddJob(Job{
		Name:  "quota_year_rollover",
		Every: 1 * time.Hour,
		Run:   j.RolloverIfYearChanged,
	})
}

// RolloverIfYearChanged zeroes used counters once per calendar-year change.
func (j *QuotaJobs) RolloverIfYearChanged(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	year := time.Now().Year()
	if year == j.lastYear {
		return nil
	}

	affected, err := j.resetter.ResetUsedForYear(ctx, year)
	if err != nil {
		return err
	}

	j.lastYear = year
	slog.Info("Quota year rollover completed", "year", year, "rows_affected", affected)
	return nil
}
