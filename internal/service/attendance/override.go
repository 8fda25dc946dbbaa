package attendance

import (
	"time"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
)

// Resolve combines a computed calculation with an optional manual
// override into the record the dashboard displays.
//
// Without an override the computed calculation passes through verbatim.
// With one, the override's status is authoritative and every
// punch-derived field is reported as absent/zero; the underlying ledger
// and calculation stay untouched in storage, so clearing the override
// later restores them exactly.
func Resolve(employeeID string, date time.Time, calc attendance.Calculation, computed attendance.Status, override *attendance.Override) attendance.DayRecord {
	if override == nil {
		return attendance.DayRecord{
			EmployeeID:       employeeID,
			Date:             date,
			FirstCheckIn:     calc.FirstCheckIn,
			LastCheckOut:     calc.LastCheckOut,
			AttendingMinutes: calc.AttendingMinutes,
			BreakMinutes:     calc.BreakMinutes,
			Status:           computed,
			OpenSession:      calc.OpenSession,
		}
	}

	return attendance.DayRecord{
		EmployeeID:    employeeID,
		Date:          date,
		Status:        override.Status,
		Overridden:    true,
		OverrideNotes: override.Notes,
	}
}

// OverridableDate reports whether an override may be created or cleared
// for date: only calendar dates strictly before today qualify, never
// today or the future.
func OverridableDate(date time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return day.Before(today)
}
