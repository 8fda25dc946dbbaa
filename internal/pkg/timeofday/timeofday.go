package timeofday

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight [0, 1439].
// A missing time ("no punch") is represented as a nil *TimeOfDay, never as
// the zero value, so 00:00 stays distinguishable from "absent".
type TimeOfDay int

const MinutesPerDay = 1440

// Layouts accepted by Parse. Device exports are inconsistent: some send
// 24-hour "HH:MM" or "HH:MM:SS", older firmware sends 12-hour with a
// meridiem token. Seconds are discarded.
var layouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"3:04:05PM",
}

// Parse converts a time-of-day string into a TimeOfDay.
func Parse(s string) (TimeOfDay, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	if normalized == "" {
		return 0, fmt.Errorf("empty time string")
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, normalized)
		if err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), nil
		}
	}

	return 0, fmt.Errorf("unrecognized time format: %q", s)
}

// FromClock builds a TimeOfDay from an hour and minute pair.
func FromClock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// FromTime extracts the clock time of t in its own location.
func FromTime(t time.Time) TimeOfDay {
	return FromClock(t.Hour(), t.Minute())
}

// Hour returns the hour component [0, 23].
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute component [0, 59].
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// Minutes returns the raw minutes-since-midnight value.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// String renders the canonical 24-hour "HH:MM" form. Parsing the output
// of String is a fixed point.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Valid reports whether t falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// Display renders t, or "-" when there is no time to show.
func Display(t *TimeOfDay) string {
	if t == nil {
		return "-"
	}
	return t.String()
}

// Ptr returns a pointer to t. Convenience for building optional fields.
func Ptr(t TimeOfDay) *TimeOfDay {
	return &t
}
