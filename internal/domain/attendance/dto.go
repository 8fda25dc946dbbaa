package attendance

import (
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/timeofday"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH / LEDGER DTOs
// ========================================

// PunchEntry is one raw row of a punch list as submitted by a device or
// the edit form. Time stays a string here: the edit validator reports
// unparseable rows by position instead of failing the whole decode.
type PunchEntry struct {
	Time     string  `json:"time"`
	Type     string  `json:"type"`
	Location *string `json:"location,omitempty"`
}

type RecordPunchRequest struct {
	Time     string  `json:"time"`
	Type     string  `json:"type"`
	Location *string `json:"location,omitempty"`
}

func (r *RecordPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Time) {
		errs = append(errs, validator.ValidationError{
			Field:   "time",
			Message: "time is required",
		})
	} else if _, err := timeofday.Parse(r.Time); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "time",
			Message: "time must be HH:MM, HH:MM:SS or a 12-hour time with AM/PM",
		})
	}

	if !PunchType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: in, out",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EditLedgerRequest replaces the entire punch list for one employee-day.
// Row-level invariants (parseability, chronology, alternation) are
// enforced by the edit validator, not here.
type EditLedgerRequest struct {
	Punches []PunchEntry `json:"punches"`
}

func (r *EditLedgerRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, p := range r.Punches {
		if !PunchType(p.Type).Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "punches",
				Message: "every punch type must be one of: in, out",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// OVERRIDE DTOs
// ========================================

type SetOverrideRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

func (r *SetOverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Status(r.Status).Overridable() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: on_leave, absent, weekend, holiday",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type PunchResponse struct {
	Time     string  `json:"time"`
	Type     string  `json:"type"`
	Location *string `json:"location,omitempty"`
}

type DayRecordResponse struct {
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	Date             string          `json:"date"`
	FirstCheckIn     string          `json:"first_check_in"`
	LastCheckOut     string          `json:"last_check_out"`
	AttendingMinutes int             `json:"total_attending_minutes"`
	BreakMinutes     int             `json:"total_break_minutes"`
	Status           string          `json:"status"`
	Overridden       bool            `json:"overridden"`
	OverrideNotes    *string         `json:"override_notes,omitempty"`
	OpenSession      bool            `json:"open_session,omitempty"`
	Punches          []PunchResponse `json:"punches"`
}

type RosterResponse struct {
	Date           string              `json:"date"`
	TotalEmployees int                 `json:"total_employees"`
	Records        []DayRecordResponse `json:"records"`
}
