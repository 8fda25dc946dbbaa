package attendance

import (
	"testing"
	"time"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/timeofday"
)

func TestResolveWithoutOverride(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	calc := attendance.Calculation{
		FirstCheckIn:     timeofday.Ptr(timeofday.FromClock(9, 5)),
		LastCheckOut:     timeofday.Ptr(timeofday.FromClock(18, 15)),
		AttendingMinutes: 495,
		BreakMinutes:     60,
	}

	record := Resolve("emp-1", day, calc, attendance.StatusPresent, nil)

	if record.Status != attendance.StatusPresent {
		t.Errorf("Status = %s, want present", record.Status)
	}
	if record.Overridden {
		t.Error("Overridden = true, want false")
	}
	if record.AttendingMinutes != 495 || record.BreakMinutes != 60 {
		t.Errorf("minutes = %d/%d, want 495/60", record.AttendingMinutes, record.BreakMinutes)
	}
	if record.FirstCheckIn == nil || record.FirstCheckIn.String() != "09:05" {
		t.Errorf("FirstCheckIn = %s", timeofday.Display(record.FirstCheckIn))
	}
}

func TestResolveWithOverrideMasksComputedFields(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	calc := attendance.Calculation{
		FirstCheckIn:     timeofday.Ptr(timeofday.FromClock(9, 5)),
		LastCheckOut:     timeofday.Ptr(timeofday.FromClock(18, 15)),
		AttendingMinutes: 495,
		BreakMinutes:     60,
	}
	notes := "approved annual leave"
	override := &attendance.Override{
		EmployeeID: "emp-1",
		Date:       day,
		Status:     attendance.StatusOnLeave,
		Notes:      &notes,
	}

	record := Resolve("emp-1", day, calc, attendance.StatusPresent, override)

	if record.Status != attendance.StatusOnLeave {
		t.Errorf("Status = %s, want on_leave", record.Status)
	}
	if !record.Overridden {
		t.Error("Overridden = false, want true")
	}
	if record.FirstCheckIn != nil || record.LastCheckOut != nil {
		t.Error("overridden day must report no punch-derived times")
	}
	if record.AttendingMinutes != 0 || record.BreakMinutes != 0 {
		t.Errorf("overridden day minutes = %d/%d, want 0/0", record.AttendingMinutes, record.BreakMinutes)
	}
	if record.OverrideNotes == nil || *record.OverrideNotes != notes {
		t.Error("override notes not carried through")
	}
}

func TestResolveClearRestoresComputed(t *testing.T) {
	// The computed calculation is untouched by an override: resolving
	// with the override and then without yields the original record.
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	calc := attendance.Calculation{
		FirstCheckIn:     timeofday.Ptr(timeofday.FromClock(10, 30)),
		LastCheckOut:     timeofday.Ptr(timeofday.FromClock(18, 0)),
		AttendingMinutes: 450,
	}
	override := &attendance.Override{Status: attendance.StatusHoliday}

	before := Resolve("emp-1", day, calc, attendance.StatusHalfDay, nil)
	_ = Resolve("emp-1", day, calc, attendance.StatusHalfDay, override)
	after := Resolve("emp-1", day, calc, attendance.StatusHalfDay, nil)

	if before.Status != after.Status ||
		before.AttendingMinutes != after.AttendingMinutes ||
		timeofday.Display(before.FirstCheckIn) != timeofday.Display(after.FirstCheckIn) {
		t.Errorf("clearing an override must restore the computed record: %+v vs %+v", before, after)
	}
}

func TestOverridableDate(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"yesterday", time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), true},
		{"last month", time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC), true},
		{"today", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), false},
		{"today later clock time", time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC), false},
		{"tomorrow", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"next year", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := OverridableDate(c.date, now); got != c.want {
				t.Errorf("OverridableDate(%s) = %v, want %v", c.date.Format("2006-01-02"), got, c.want)
			}
		})
	}
}
