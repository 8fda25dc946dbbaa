package attendance

import (
	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/timeofday"
)

// Reconcile pairs a day's punches into work sessions and aggregates
// worked and break minutes.
//
// now carries the current clock time when reconciling a live
// (in-progress) day; a trailing unmatched check-in then accrues minutes
// up to now. For past days now must be nil: an unmatched check-in on a
// completed day is a data anomaly and contributes zero additional
// minutes instead of being extrapolated.
func Reconcile(ledger attendance.Ledger, now *timeofday.TimeOfDay) attendance.Calculation {
	sorted := ledger.SortedByTime()

	var checkIns, checkOuts []timeofday.TimeOfDay
	for _, p := range sorted {
		switch p.Type {
		case attendance.PunchIn:
			checkIns = append(checkIns, p.Time)
		case attendance.PunchOut:
			checkOuts = append(checkOuts, p.Time)
		}
	}

	var calc attendance.Calculation
	if len(checkIns) == 0 {
		// Nothing to pair; the classifier reports the day as absent.
		return calc
	}

	calc.FirstCheckIn = timeofday.Ptr(checkIns[0])
	if len(checkOuts) > 0 {
		calc.LastCheckOut = timeofday.Ptr(checkOuts[len(checkOuts)-1])
	}

	oi := 0
	for i, in := range checkIns {
		last := i == len(checkIns)-1

		// Earliest check-out strictly after this check-in.
		for oi < len(checkOuts) && checkOuts[oi] <= in {
			oi++
		}

		// A check-out belongs to this session only if it precedes the
		// next check-in; the final check-in may claim any later one.
		if oi < len(checkOuts) && (last || checkOuts[oi] < checkIns[i+1]) {
			out := checkOuts[oi]
			oi++
			calc.AttendingMinutes += out.Minutes() - in.Minutes()

			if !last {
				gap := checkIns[i+1].Minutes() - out.Minutes()
				if gap > 0 {
					calc.BreakMinutes += gap
				}
			}
			continue
		}

		if last {
			calc.OpenSession = true
			if now != nil && *now > in {
				calc.AttendingMinutes += now.Minutes() - in.Minutes()
			}
		}
	}

	return calc
}
