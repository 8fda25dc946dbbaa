package attendance

import (
	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
)

// Classify assigns a discrete status to a reconciled day. First match
// wins:
//
//  1. zero attending minutes        -> absent
//  2. at or above the full-day mark -> late when the first check-in is
//     past shift start plus the grace period, present otherwise
//  3. anything else with attendance -> half day
//
// Attendance below the half-day threshold still lands in the half-day
// bucket; there is deliberately no separate "partial" status. On-leave,
// weekend and holiday are never produced here - they are only reachable
// through a manual override.
func Classify(calc attendance.Calculation, cfg attendance.Config) attendance.Status {
	if calc.AttendingMinutes == 0 {
		return attendance.StatusAbsent
	}

	if calc.AttendingMinutes >= cfg.FullDayMinutes {
		graceLimit := cfg.ShiftStart.Minutes() + cfg.LateThresholdMinutes
		if calc.FirstCheckIn != nil && calc.FirstCheckIn.Minutes() > graceLimit {
			return attendance.StatusLate
		}
		return attendance.StatusPresent
	}

	return attendance.StatusHalfDay
}
