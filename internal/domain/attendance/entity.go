package attendance

import (
	"sort"
	"time"

	"github.com/presensia-hr/attendance-backend-go/internal/pkg/timeofday"
)

type PunchType string

const (
	PunchIn  PunchType = "in"
	PunchOut PunchType = "out"
)

func (pt PunchType) Valid() bool {
	return pt == PunchIn || pt == PunchOut
}

// Punch is a single check-in or check-out event captured by the
// face-recognition device for one employee on one date. Location is
// informational only and never enters the computation.
type Punch struct {
	Time     timeofday.TimeOfDay
	Type     PunchType
	Location *string
}

// Ledger is the full ordered punch list for one (employee, date) pair.
type Ledger []Punch

// SortedByTime returns a copy of the ledger sorted by canonical minutes.
// The sort is stable: punches sharing a minute keep their original order.
func (l Ledger) SortedByTime() Ledger {
	sorted := make(Ledger, len(l))
	copy(sorted, l)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return sorted
}

// StructurallyValid reports whether the ledger is strictly chronological
// and alternates in/out starting with a check-in. A trailing unmatched
// check-in is valid (employee still on premises).
func (l Ledger) StructurallyValid() bool {
	for i, p := range l {
		if i > 0 && p.Time <= l[i-1].Time {
			return false
		}
		if p.Type != expectedTypeAt(i) {
			return false
		}
	}
	return true
}

// expectedTypeAt is the punch type a well-formed ledger carries at
// position i: check-ins on even positions, check-outs on odd ones.
func expectedTypeAt(i int) PunchType {
	if i%2 == 0 {
		return PunchIn
	}
	return PunchOut
}

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
	StatusOnLeave Status = "on_leave"
	StatusWeekend Status = "weekend"
	StatusHoliday Status = "holiday"
)

// OverrideStatuses are the only statuses an administrator may assign by
// hand. The classifier never produces them.
var OverrideStatuses = []Status{StatusOnLeave, StatusAbsent, StatusWeekend, StatusHoliday}

func (s Status) Overridable() bool {
	for _, os := range OverrideStatuses {
		if s == os {
			return true
		}
	}
	return false
}

// Calculation is the reconciler output: a pure function of a ledger and
// the reconciliation clock, never persisted independently of its ledger.
type Calculation struct {
	FirstCheckIn     *timeofday.TimeOfDay
	LastCheckOut     *timeofday.TimeOfDay
	AttendingMinutes int
	BreakMinutes     int

	// OpenSession marks a trailing check-in with no matching check-out.
	// On a live day it contributes minutes up to "now"; on a past day it
	// contributes nothing and is flagged for administrator review.
	OpenSession bool
}

// Config holds the classification thresholds. Loaded once at process
// start and passed by value into every computation.
type Config struct {
	FullDayMinutes       int
	HalfDayMinutes       int
	LateThresholdMinutes int
	ShiftStart           timeofday.TimeOfDay

	// BreakDeductionMinutes is carried in configuration for parity with
	// the payroll side but is not applied anywhere: break time is derived
	// purely from punch gaps.
	BreakDeductionMinutes int
}

func DefaultConfig() Config {
	return Config{
		FullDayMinutes:        480,
		HalfDayMinutes:        240,
		LateThresholdMinutes:  30,
		ShiftStart:            timeofday.FromClock(9, 0),
		BreakDeductionMinutes: 60,
	}
}

// Override is an administrator-authored status for a past (employee,
// date) pair. While present it supersedes the computed calculation; the
// underlying ledger is retained and becomes visible again once cleared.
type Override struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	Notes      *string
	CreatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DayRecord is the resolved attendance record for one employee-day:
// either the computed calculation verbatim, or the override with all
// punch-derived fields masked.
type DayRecord struct {
	EmployeeID       string
	Date             time.Time
	FirstCheckIn     *timeofday.TimeOfDay
	LastCheckOut     *timeofday.TimeOfDay
	AttendingMinutes int
	BreakMinutes     int
	Status           Status
	OpenSession      bool
	Overridden       bool
	OverrideNotes    *string

	// DTO / join
	EmployeeName *string
}
