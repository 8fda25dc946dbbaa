package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Override errors
	ErrInvalidDateRange = errors.New("overrides are only allowed for dates before today")
	ErrOverrideNotFound = errors.New("no override exists for this date")
)

// EditErrorKind identifies which structural invariant an edited ledger
// violated.
type EditErrorKind string

const (
	EditErrInvalidTime EditErrorKind = "invalid_time"
	EditErrChronology  EditErrorKind = "chronological_error"
	EditErrSequence    EditErrorKind = "invalid_sequence"
)

// EditValidationError rejects a candidate ledger edit. Row is 1-based and
// names the first offending entry; the whole edit is refused, nothing is
// committed.
type EditValidationError struct {
	Kind     EditErrorKind
	Row      int
	Expected PunchType
	Found    PunchType
}

func (e *EditValidationError) Error() string {
	switch e.Kind {
	case EditErrInvalidTime:
		return fmt.Sprintf("invalid time entry at row %d", e.Row)
	case EditErrChronology:
		return fmt.Sprintf("chronological error at row %d", e.Row)
	case EditErrSequence:
		return fmt.Sprintf("invalid punch sequence at row %d: expected %s, found %s", e.Row, e.Expected, e.Found)
	default:
		return fmt.Sprintf("invalid ledger edit at row %d", e.Row)
	}
}
