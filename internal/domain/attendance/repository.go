package attendance

import (
	"context"
	"time"
)

// PunchRepository defines data access for raw punch ledgers. Punches are
// keyed by (employee, date); ordering within a day is by canonical time.
type PunchRepository interface {
	// ListByEmployeeAndDate returns the stored ledger for one employee-day,
	// ordered by time then insertion.
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Ledger, error)

	// Append adds one punch to an employee-day ledger.
	Append(ctx context.Context, employeeID string, date time.Time, punch Punch) error

	// ReplaceForDate atomically swaps the stored ledger for the candidate
	// one. Runs inside the ambient transaction when one is present.
	ReplaceForDate(ctx context.Context, employeeID string, date time.Time, punches Ledger) error

	// ListOpenDays returns employee-days in [from, to) whose ledger ends in
	// an unmatched check-in. Used by the nightly anomaly sweep.
	ListOpenDays(ctx context.Context, from, to time.Time) ([]OpenDay, error)
}

// OpenDay identifies an employee-day flagged by the anomaly sweep.
type OpenDay struct {
	EmployeeID string
	Date       time.Time
}

// OverrideRepository defines data access for manual status overrides.
type OverrideRepository interface {
	// GetByEmployeeAndDate returns the override for one employee-day, or
	// nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Override, error)

	// Upsert creates or replaces the override for its employee-day.
	Upsert(ctx context.Context, override Override) (Override, error)

	// Delete removes the override for one employee-day.
	// Returns ErrOverrideNotFound when none exists.
	Delete(ctx context.Context, employeeID string, date time.Time) error
}
