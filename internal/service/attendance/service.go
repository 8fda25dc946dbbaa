package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/employee"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/sse"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/timeofday"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	cfg attendance.Config
	hub *sse.Hub
	attendance.PunchRepository
	attendance.OverrideRepository
	employee.EmployeeRepository

	now func() time.Time

	// Per-(employee, date) edit locks: two concurrent edits of the same
	// ledger must not both validate against the same stale state and race
	// to commit. Edits to different days never contend.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAttendanceService(
	cfg attendance.Config,
	punchRepo attendance.PunchRepository,
	overrideRepo attendance.OverrideRepository,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		cfg:                cfg,
		hub:                hub,
		PunchRepository:    punchRepo,
		OverrideRepository: overrideRepo,
		EmployeeRepository: employeeRepo,
		now:                time.Now,
		locks:              make(map[string]*sync.Mutex),
	}
}

// GetDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDay(ctx context.Context, employeeID string, date string) (attendance.DayRecordResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	ledger, override, err := s.loadDay(ctx, emp.ID, day)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	record := s.resolveDay(emp, day, ledger, override)
	return toDayResponse(record, ledger), nil
}

// RecordPunch implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordPunch(ctx context.Context, employeeID string, date string, req attendance.RecordPunchRequest) (attendance.DayRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayRecordResponse{}, err
	}

	day, err := parseDate(date)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	tod, err := timeofday.Parse(req.Time)
	if err != nil {
		// Validate already accepted the time; a failure here means the
		// codec and the validator disagree.
		return attendance.DayRecordResponse{}, fmt.Errorf("parse punch time: %w", err)
	}

	punch := attendance.Punch{
		Time:     tod,
		Type:     attendance.PunchType(req.Type),
		Location: req.Location,
	}
	if err := s.PunchRepository.Append(ctx, emp.ID, day, punch); err != nil {
		return attendance.DayRecordResponse{}, fmt.Errorf("append punch: %w", err)
	}

	ledger, override, err := s.loadDay(ctx, emp.ID, day)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	record := s.resolveDay(emp, day, ledger, override)
	resp := toDayResponse(record, ledger)
	s.broadcast("punch.recorded", resp)
	return resp, nil
}

// ReplaceLedger implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ReplaceLedger(ctx context.Context, employeeID string, date string, req attendance.EditLedgerRequest) (attendance.DayRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayRecordResponse{}, err
	}

	day, err := parseDate(date)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	ledger, vErr := ValidateEdit(req.Punches)
	if vErr != nil {
		return attendance.DayRecordResponse{}, vErr
	}

	lock := s.editLock(emp.ID, date)
	lock.Lock()
	defer lock.Unlock()

	if err := s.PunchRepository.ReplaceForDate(ctx, emp.ID, day, ledger); err != nil {
		return attendance.DayRecordResponse{}, fmt.Errorf("replace ledger: %w", err)
	}

	override, err := s.OverrideRepository.GetByEmployeeAndDate(ctx, emp.ID, day)
	if err != nil {
		return attendance.DayRecordResponse{}, fmt.Errorf("get override: %w", err)
	}

	record := s.resolveDay(emp, day, ledger, override)
	resp := toDayResponse(record, ledger)
	s.broadcast("ledger.replaced", resp)
	return resp, nil
}

// GetRoster implements attendance.AttendanceService.
// Each employee-day reconciliation is independent and stateless, so the
// roster fans out one goroutine per employee. A failed employee is
// logged and skipped; it never blocks the rest of the roster (a single
// bad day must not take the whole board down).
func (s *AttendanceServiceImpl) GetRoster(ctx context.Context, date string) (attendance.RosterResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return attendance.RosterResponse{}, err
	}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return attendance.RosterResponse{}, fmt.Errorf("list employees: %w", err)
	}

	results := make([]*attendance.DayRecordResponse, len(employees))
	var wg sync.WaitGroup
	for i, emp := range employees {
		wg.Add(1)
		go func(i int, emp employee.Employee) {
			defer wg.Done()
			ledger, override, err := s.loadDay(ctx, emp.ID, day)
			if err != nil {
				slog.Error("roster: skipping employee", "employee_id", emp.ID, "date", date, "error", err)
				return
			}
			record := s.resolveDay(emp, day, ledger, override)
			resp := toDayResponse(record, ledger)
			results[i] = &resp
		}(i, emp)
	}
	wg.Wait()

	records := make([]attendance.DayRecordResponse, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].EmployeeID < records[j].EmployeeID
	})

	return attendance.RosterResponse{
		Date:           day.Format("2006-01-02"),
		TotalEmployees: len(employees),
		Records:        records,
	}, nil
}

// SetOverride implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetOverride(ctx context.Context, employeeID string, date string, req attendance.SetOverrideRequest) (attendance.DayRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayRecordResponse{}, err
	}

	day, err := parseDate(date)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	if !OverridableDate(day, s.now()) {
		return attendance.DayRecordResponse{}, attendance.ErrInvalidDateRange
	}

	override := attendance.Override{
		EmployeeID: emp.ID,
		Date:       day,
		Status:     attendance.Status(req.Status),
		Notes:      req.Notes,
		CreatedBy:  actorFromContext(ctx),
	}
	saved, err := s.OverrideRepository.Upsert(ctx, override)
	if err != nil {
		return attendance.DayRecordResponse{}, fmt.Errorf("upsert override: %w", err)
	}

	ledger, err := s.PunchRepository.ListByEmployeeAndDate(ctx, emp.ID, day)
	if err != nil {
		return attendance.DayRecordResponse{}, fmt.Errorf("list punches: %w", err)
	}

	record := s.resolveDay(emp, day, ledger, &saved)
	resp := toDayResponse(record, ledger)
	s.broadcast("override.set", resp)
	return resp, nil
}

// ClearOverride implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClearOverride(ctx context.Context, employeeID string, date string) (attendance.DayRecordResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.DayRecordResponse{}, err
	}

	if !OverridableDate(day, s.now()) {
		return attendance.DayRecordResponse{}, attendance.ErrInvalidDateRange
	}

	if err := s.OverrideRepository.Delete(ctx, emp.ID, day); err != nil {
		return attendance.DayRecordResponse{}, err
	}

	ledger, err := s.PunchRepository.ListByEmployeeAndDate(ctx, emp.ID, day)
	if err != nil {
		return attendance.DayRecordResponse{}, fmt.Errorf("list punches: %w", err)
	}

	record := s.resolveDay(emp, day, ledger, nil)
	resp := toDayResponse(record, ledger)
	s.broadcast("override.cleared", resp)
	return resp, nil
}

// resolveDay runs the full pipeline for one employee-day: reconcile,
// classify, resolve against any override. The live "now" clock is only
// supplied when the date is today; past days never extrapolate an open
// session.
func (s *AttendanceServiceImpl) resolveDay(emp employee.Employee, day time.Time, ledger attendance.Ledger, override *attendance.Override) attendance.DayRecord {
	var now *timeofday.TimeOfDay
	if current := s.now(); sameDay(day, current) {
		now = timeofday.Ptr(timeofday.FromTime(current))
	}

	calc := Reconcile(ledger, now)
	status := Classify(calc, s.cfg)
	record := Resolve(emp.ID, day, calc, status, override)

	name := emp.Name
	record.EmployeeName = &name
	return record
}

func (s *AttendanceServiceImpl) loadDay(ctx context.Context, employeeID string, day time.Time) (attendance.Ledger, *attendance.Override, error) {
	ledger, err := s.PunchRepository.ListByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return nil, nil, fmt.Errorf("list punches: %w", err)
	}
	override, err := s.OverrideRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		return nil, nil, fmt.Errorf("get override: %w", err)
	}
	return ledger, override, nil
}

func (s *AttendanceServiceImpl) editLock(employeeID, date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := employeeID + "|" + date
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func (s *AttendanceServiceImpl) broadcast(event string, record attendance.DayRecordResponse) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(sse.Event{Event: event, Data: record})
}

func toDayResponse(record attendance.DayRecord, ledger attendance.Ledger) attendance.DayRecordResponse {
	sorted := ledger.SortedByTime()
	punches := make([]attendance.PunchResponse, 0, len(sorted))
	for _, p := range sorted {
		punches = append(punches, attendance.PunchResponse{
			Time:     p.Time.String(),
			Type:     string(p.Type),
			Location: p.Location,
		})
	}

	return attendance.DayRecordResponse{
		EmployeeID:       record.EmployeeID,
		EmployeeName:     record.EmployeeName,
		Date:             record.Date.Format("2006-01-02"),
		FirstCheckIn:     timeofday.Display(record.FirstCheckIn),
		LastCheckOut:     timeofday.Display(record.LastCheckOut),
		AttendingMinutes: record.AttendingMinutes,
		BreakMinutes:     record.BreakMinutes,
		Status:           string(record.Status),
		Overridden:       record.Overridden,
		OverrideNotes:    record.OverrideNotes,
		OpenSession:      record.OpenSession,
		Punches:          punches,
	}
}

func parseDate(date string) (time.Time, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return day, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// actorFromContext extracts the acting user's ID from the JWT claims,
// when a token is present. Background jobs have none.
func actorFromContext(ctx context.Context) *string {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return &id
	}
	return nil
}
