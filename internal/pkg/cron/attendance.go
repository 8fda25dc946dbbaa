package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/employee"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/sse"
)

// AttendanceJobs holds the nightly anomaly sweep. Open sessions on past
// days are never guessed closed; they are surfaced for an administrator
// to fix through the ledger editor.
type AttendanceJobs struct {
	punchRepo    attendance.PunchRepository
	employeeRepo employee.EmployeeRepository
	hub          *sse.Hub

	// sweepWindowDays bounds how far back the sweep looks.
	sweepWindowDays int
}

func NewAttendanceJobs(
	punchRepo attendance.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
) *AttendanceJobs {
	return &AttendanceJobs{
		punchRepo:       punchRepo,
		employeeRepo:    employeeRepo,
		hub:             hub,
		sweepWindowDays: 14,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("flag_open_sessions", 1*time.Hour, j.FlagOpenSessions)
}

// FlagOpenSessions reports past employee-days whose ledger ends in an
// unmatched check-in.
func (j *AttendanceJobs) FlagOpenSessions(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting open session sweep")

	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -j.sweepWindowDays)

	openDays, err := j.punchRepo.ListOpenDays(ctx, from, today)
	if err != nil {
		return fmt.Errorf("failed to list open days: %w", err)
	}

	if len(openDays) == 0 {
		slog.Info("Cron: No open sessions found")
		return nil
	}

	for _, day := range openDays {
		name := ""
		if emp, err := j.employeeRepo.GetByID(ctx, day.EmployeeID); err == nil {
			name = emp.Name
		}

		slog.Warn("Cron: Open session needs review",
			"employee_id", day.EmployeeID,
			"employee_name", name,
			"date", day.Date.Format("2006-01-02"),
		)

		if j.hub != nil {
			j.hub.Broadcast(sse.Event{
				Event: "session.open_flagged",
				Data: map[string]interface{}{
					"employee_id": day.EmployeeID,
					"date":        day.Date.Format("2006-01-02"),
				},
			})
		}
	}

	slog.Info("Cron: Open session sweep finished", "count", len(openDays))
	return nil
}
