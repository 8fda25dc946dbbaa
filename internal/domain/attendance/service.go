package attendance

import (
	"context"
)

// AttendanceService defines the reconciliation pipeline operations.
// Dates are YYYY-MM-DD strings at this boundary.
type AttendanceService interface {
	// GetDay returns the resolved attendance record for one employee-day,
	// recomputed from its stored ledger.
	GetDay(ctx context.Context, employeeID string, date string) (DayRecordResponse, error)

	// RecordPunch appends a single device punch and re-reconciles the day.
	RecordPunch(ctx context.Context, employeeID string, date string, req RecordPunchRequest) (DayRecordResponse, error)

	// ReplaceLedger validates an edited punch list and, if every invariant
	// holds, commits it in full and re-reconciles the day. No partial
	// acceptance: the first offending row rejects the whole edit.
	ReplaceLedger(ctx context.Context, employeeID string, date string, req EditLedgerRequest) (DayRecordResponse, error)

	// GetRoster resolves every active employee's record for one date.
	GetRoster(ctx context.Context, date string) (RosterResponse, error)

	// SetOverride stores an authoritative status for a past employee-day.
	// Rejected with ErrInvalidDateRange for today or a future date.
	SetOverride(ctx context.Context, employeeID string, date string, req SetOverrideRequest) (DayRecordResponse, error)

	// ClearOverride removes the override and restores the computed record.
	ClearOverride(ctx context.Context, employeeID string, date string) (DayRecordResponse, error)
}
