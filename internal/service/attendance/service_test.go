package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== In-memory fakes =====

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

type fakePunchRepo struct {
	mu   sync.Mutex
	days map[string]attendance.Ledger
}

func newFakePunchRepo() *fakePunchRepo {
	return &fakePunchRepo{days: make(map[string]attendance.Ledger)}
}

func (f *fakePunchRepo) ListByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.Ledger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.days[dayKey(employeeID, date)]
	out := make(attendance.Ledger, len(stored))
	copy(out, stored)
	return out, nil
}

func (f *fakePunchRepo) Append(_ context.Context, employeeID string, date time.Time, punch attendance.Punch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dayKey(employeeID, date)
	f.days[key] = append(f.days[key], punch)
	return nil
}

func (f *fakePunchRepo) ReplaceForDate(_ context.Context, employeeID string, date time.Time, punches attendance.Ledger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := make(attendance.Ledger, len(punches))
	copy(stored, punches)
	f.days[dayKey(employeeID, date)] = stored
	return nil
}

func (f *fakePunchRepo) ListOpenDays(_ context.Context, from, to time.Time) ([]attendance.OpenDay, error) {
	return nil, nil
}

type fakeOverrideRepo struct {
	mu        sync.Mutex
	overrides map[string]attendance.Override
}

func newFakeOverrideRepo() *fakeOverrideRepo {
	return &fakeOverrideRepo{overrides: make(map[string]attendance.Override)}
}

func (f *fakeOverrideRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Override, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ov, ok := f.overrides[dayKey(employeeID, date)]; ok {
		return &ov, nil
	}
	return nil, nil
}

func (f *fakeOverrideRepo) Upsert(_ context.Context, override attendance.Override) (attendance.Override, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	override.ID = "ov-" + dayKey(override.EmployeeID, override.Date)
	f.overrides[dayKey(override.EmployeeID, override.Date)] = override
	return override, nil
}

func (f *fakeOverrideRepo) Delete(_ context.Context, employeeID string, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := dayKey(employeeID, date)
	if _, ok := f.overrides[key]; !ok {
		return attendance.ErrOverrideNotFound
	}
	delete(f.overrides, key)
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

// ===== Test harness =====

// Fixed clock: Tuesday 2024-03-05, 12:00 server time.
var testNow = time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

const (
	today     = "2024-03-05"
	yesterday = "2024-03-04"
	tomorrow  = "2024-03-06"
)

func newTestService() (*AttendanceServiceImpl, *fakePunchRepo, *fakeOverrideRepo) {
	punchRepo := newFakePunchRepo()
	overrideRepo := newFakeOverrideRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", Code: "0001", Name: "Ayu Lestari", Active: true},
		{ID: "emp-2", Code: "0002", Name: "Budi Santoso", Active: true},
	}}

	svc := &AttendanceServiceImpl{
		cfg:                attendance.DefaultConfig(),
		PunchRepository:    punchRepo,
		OverrideRepository: overrideRepo,
		EmployeeRepository: employeeRepo,
		now:                func() time.Time { return testNow },
		locks:              make(map[string]*sync.Mutex),
	}
	return svc, punchRepo, overrideRepo
}

func editRequest(rows ...attendance.PunchEntry) attendance.EditLedgerRequest {
	return attendance.EditLedgerRequest{Punches: rows}
}

// ===== Tests =====

func TestServiceReplaceLedgerAndGetDay(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ReplaceLedger(ctx, "emp-1", yesterday, editRequest(
		entry("09:05", "in"), entry("13:00", "out"),
		entry("14:00", "in"), entry("18:15", "out"),
	))
	require.NoError(t, err)

	got, err := svc.GetDay(ctx, "emp-1", yesterday)
	require.NoError(t, err)

	assert.Equal(t, 490, got.AttendingMinutes)
	assert.Equal(t, 60, got.BreakMinutes)
	assert.Equal(t, "09:05", got.FirstCheckIn)
	assert.Equal(t, "18:15", got.LastCheckOut)
	// 09:05 is inside the 30 minute grace window past 09:00.
	assert.Equal(t, string(attendance.StatusPresent), got.Status)
	assert.Len(t, got.Punches, 4)
}

func TestServiceReplaceLedgerRejectsInvalidEditWithoutCommit(t *testing.T) {
	svc, punchRepo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ReplaceLedger(ctx, "emp-1", yesterday, editRequest(
		entry("09:00", "in"), entry("17:00", "out"),
	))
	require.NoError(t, err)

	_, err = svc.ReplaceLedger(ctx, "emp-1", yesterday, editRequest(
		entry("09:00", "in"), entry("08:00", "out"),
	))
	require.Error(t, err)

	var vErr *attendance.EditValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, attendance.EditErrChronology, vErr.Kind)
	assert.Equal(t, 2, vErr.Row)

	// The stored ledger is untouched: no partial commit.
	day, _ := time.Parse("2006-01-02", yesterday)
	stored, err := punchRepo.ListByEmployeeAndDate(ctx, "emp-1", day)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "09:00", stored[0].Time.String())
	assert.Equal(t, "17:00", stored[1].Time.String())
}

func TestServiceGetDayEmptyLedgerIsAbsent(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.GetDay(context.Background(), "emp-1", yesterday)
	require.NoError(t, err)

	assert.Equal(t, string(attendance.StatusAbsent), got.Status)
	assert.Equal(t, "-", got.FirstCheckIn)
	assert.Equal(t, "-", got.LastCheckOut)
	assert.Zero(t, got.AttendingMinutes)
}

func TestServiceGetDayUnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetDay(context.Background(), "emp-404", yesterday)
	assert.True(t, errors.Is(err, employee.ErrEmployeeNotFound))
}

func TestServiceRecordPunch(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	got, err := svc.RecordPunch(ctx, "emp-1", yesterday, attendance.RecordPunchRequest{
		Time: "9:05 AM", Type: "in",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:05", got.FirstCheckIn)
	require.Len(t, got.Punches, 1)
	assert.Equal(t, "09:05", got.Punches[0].Time)

	got, err = svc.RecordPunch(ctx, "emp-1", yesterday, attendance.RecordPunchRequest{
		Time: "17:05", Type: "out",
	})
	require.NoError(t, err)
	assert.Equal(t, 480, got.AttendingMinutes)
	assert.Equal(t, string(attendance.StatusPresent), got.Status)
}

func TestServiceRecordPunchRejectsBadTime(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.RecordPunch(context.Background(), "emp-1", yesterday, attendance.RecordPunchRequest{
		Time: "half past nine", Type: "in",
	})
	require.Error(t, err)
}

func TestServiceLiveDayAccruesOpenSession(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RecordPunch(ctx, "emp-1", today, attendance.RecordPunchRequest{
		Time: "09:00", Type: "in",
	})
	require.NoError(t, err)

	got, err := svc.GetDay(ctx, "emp-1", today)
	require.NoError(t, err)

	// Clock fixed at 12:00: three hours accrued so far.
	assert.Equal(t, 180, got.AttendingMinutes)
	assert.True(t, got.OpenSession)
	assert.Equal(t, "-", got.LastCheckOut)
}

func TestServicePastDayOpenSessionNotExtrapolated(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RecordPunch(ctx, "emp-1", yesterday, attendance.RecordPunchRequest{
		Time: "09:00", Type: "in",
	})
	require.NoError(t, err)

	got, err := svc.GetDay(ctx, "emp-1", yesterday)
	require.NoError(t, err)

	assert.Zero(t, got.AttendingMinutes)
	assert.True(t, got.OpenSession)
	assert.Equal(t, string(attendance.StatusAbsent), got.Status)
}

func TestServiceOverrideLifecycle(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ReplaceLedger(ctx, "emp-1", yesterday, editRequest(
		entry("09:05", "in"), entry("13:00", "out"),
		entry("14:00", "in"), entry("18:15", "out"),
	))
	require.NoError(t, err)

	before, err := svc.GetDay(ctx, "emp-1", yesterday)
	require.NoError(t, err)
	require.Equal(t, string(attendance.StatusPresent), before.Status)

	// Today and future dates are refused.
	_, err = svc.SetOverride(ctx, "emp-1", today, attendance.SetOverrideRequest{Status: "on_leave"})
	assert.True(t, errors.Is(err, attendance.ErrInvalidDateRange))
	_, err = svc.SetOverride(ctx, "emp-1", tomorrow, attendance.SetOverrideRequest{Status: "on_leave"})
	assert.True(t, errors.Is(err, attendance.ErrInvalidDateRange))

	// Yesterday succeeds; the override status wins and punch-derived
	// fields are masked.
	notes := "annual leave, approved by HR"
	overridden, err := svc.SetOverride(ctx, "emp-1", yesterday, attendance.SetOverrideRequest{
		Status: "on_leave", Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusOnLeave), overridden.Status)
	assert.True(t, overridden.Overridden)
	assert.Equal(t, "-", overridden.FirstCheckIn)
	assert.Equal(t, "-", overridden.LastCheckOut)
	assert.Zero(t, overridden.AttendingMinutes)
	// The raw ledger stays visible for the edit form.
	assert.Len(t, overridden.Punches, 4)

	shown, err := svc.GetDay(ctx, "emp-1", yesterday)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusOnLeave), shown.Status)

	// Clearing restores the exact computed record.
	restored, err := svc.ClearOverride(ctx, "emp-1", yesterday)
	require.NoError(t, err)
	assert.Equal(t, before.Status, restored.Status)
	assert.Equal(t, before.AttendingMinutes, restored.AttendingMinutes)
	assert.Equal(t, before.BreakMinutes, restored.BreakMinutes)
	assert.Equal(t, before.FirstCheckIn, restored.FirstCheckIn)
	assert.Equal(t, before.LastCheckOut, restored.LastCheckOut)
	assert.False(t, restored.Overridden)
}

func TestServiceClearOverrideWithoutOneFails(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ClearOverride(context.Background(), "emp-1", yesterday)
	assert.True(t, errors.Is(err, attendance.ErrOverrideNotFound))
}

func TestServiceSetOverrideRejectsComputedStatus(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SetOverride(context.Background(), "emp-1", yesterday, attendance.SetOverrideRequest{
		Status: "present",
	})
	require.Error(t, err)
}

func TestServiceGetRoster(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ReplaceLedger(ctx, "emp-1", yesterday, editRequest(
		entry("09:00", "in"), entry("17:00", "out"),
	))
	require.NoError(t, err)

	_, err = svc.SetOverride(ctx, "emp-2", yesterday, attendance.SetOverrideRequest{Status: "weekend"})
	require.NoError(t, err)

	roster, err := svc.GetRoster(ctx, yesterday)
	require.NoError(t, err)

	assert.Equal(t, yesterday, roster.Date)
	assert.Equal(t, 2, roster.TotalEmployees)
	require.Len(t, roster.Records, 2)
	assert.Equal(t, "emp-1", roster.Records[0].EmployeeID)
	assert.Equal(t, string(attendance.StatusPresent), roster.Records[0].Status)
	assert.Equal(t, "emp-2", roster.Records[1].EmployeeID)
	assert.Equal(t, string(attendance.StatusWeekend), roster.Records[1].Status)
}

func TestServiceConcurrentEditsSerialize(t *testing.T) {
	svc, punchRepo, _ := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ReplaceLedger(ctx, "emp-1", yesterday, editRequest(
				entry("09:00", "in"), entry("17:00", "out"),
			))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	day, _ := time.Parse("2006-01-02", yesterday)
	stored, err := punchRepo.ListByEmployeeAndDate(ctx, "emp-1", day)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
