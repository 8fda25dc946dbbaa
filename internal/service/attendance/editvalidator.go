package attendance

import (
	"strings"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/timeofday"
)

// ValidateEdit checks a candidate edited ledger against the structural
// invariants and, when every row passes, returns the parsed ledger ready
// to commit. Rows are taken in input order: the edit form preserves row
// order as entry order, so entries are not re-sorted here.
//
// Three passes run in order, each over the whole candidate, stopping at
// the first offending row:
//
//  1. completeness - every row has a non-empty, parseable time
//  2. strict monotonicity - each time strictly greater than the previous
//  3. alternation - in/out/in/out starting with in
//
// Any failure rejects the edit in full; nothing is committed.
func ValidateEdit(rows []attendance.PunchEntry) (attendance.Ledger, *attendance.EditValidationError) {
	ledger := make(attendance.Ledger, 0, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.Time) == "" {
			return nil, &attendance.EditValidationError{Kind: attendance.EditErrInvalidTime, Row: i + 1}
		}
		tod, err := timeofday.Parse(row.Time)
		if err != nil {
			return nil, &attendance.EditValidationError{Kind: attendance.EditErrInvalidTime, Row: i + 1}
		}
		ledger = append(ledger, attendance.Punch{
			Time:     tod,
			Type:     attendance.PunchType(row.Type),
			Location: row.Location,
		})
	}

	for i := 1; i < len(ledger); i++ {
		if ledger[i].Time <= ledger[i-1].Time {
			return nil, &attendance.EditValidationError{Kind: attendance.EditErrChronology, Row: i + 1}
		}
	}

	for i, p := range ledger {
		expected := attendance.PunchIn
		if i%2 == 1 {
			expected = attendance.PunchOut
		}
		if p.Type != expected {
			return nil, &attendance.EditValidationError{
				Kind:     attendance.EditErrSequence,
				Row:      i + 1,
				Expected: expected,
				Found:    p.Type,
			}
		}
	}

	return ledger, nil
}
