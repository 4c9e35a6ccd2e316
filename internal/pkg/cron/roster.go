package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
)

// RosterJobs keeps the cached employee roster current
type RosterJobs struct {
	rosterService employee.RosterService
	interval      time.Duration
}

func NewRosterJobs(rosterService employee.RosterService, interval time.Duration) *RosterJobs {
	return &RosterJobs{
		rosterService: rosterService,
		interval:      interval,
	}
}

// RegisterJobs registers the roster refresh job
func (j *RosterJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(Job{
		Name:     "refresh_employee_roster",
		Interval: j.interval,
		Fn:       j.RefreshRoster,
	})
}

func (j *RosterJobs) RefreshRoster(ctx context.Context) error {
	return j.rosterService.Refresh(ctx)
}
