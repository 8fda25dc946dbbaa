package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/employee"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/report"
	"github.com/presensia-hr/attendance-backend-go/internal/pkg/validator"
)

type fakeAttendanceService struct {
	records map[string]attendance.DayRecordResponse
	failOn  string
}

func (f *fakeAttendanceService) GetDay(ctx context.Context, employeeID string, date string) (attendance.DayRecordResponse, error) {
	key := employeeID + "|" + date
	if key == f.failOn {
		return attendance.DayRecordResponse{}, errors.New("boom")
	}
	if rec, ok := f.records[key]; ok {
		return rec, nil
	}
	return attendance.DayRecordResponse{
		EmployeeID:   employeeID,
		Date:         date,
		FirstCheckIn: "-",
		LastCheckOut: "-",
		Status:       string(attendance.StatusAbsent),
	}, nil
}

func (f *fakeAttendanceService) RecordPunch(ctx context.Context, employeeID string, date string, req attendance.RecordPunchRequest) (attendance.DayRecordResponse, error) {
	panic("not used")
}

func (f *fakeAttendanceService) ReplaceLedger(ctx context.Context, employeeID string, date string, req attendance.EditLedgerRequest) (attendance.DayRecordResponse, error) {
	panic("not used")
}

func (f *fakeAttendanceService) GetRoster(ctx context.Context, date string) (attendance.RosterResponse, error) {
	panic("not used")
}

func (f *fakeAttendanceService) SetOverride(ctx context.Context, employeeID string, date string, req attendance.SetOverrideRequest) (attendance.DayRecordResponse, error) {
	panic("not used")
}

func (f *fakeAttendanceService) ClearOverride(ctx context.Context, employeeID string, date string) (attendance.DayRecordResponse, error) {
	panic("not used")
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func newTestService(att *fakeAttendanceService, emps []employee.Employee) *ReportServiceImpl {
	return &ReportServiceImpl{
		attendanceService: att,
		employeeRepo:      &fakeEmployeeRepo{employees: emps},
		now: func() time.Time {
			return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestMonthlyAttendanceWorkbook(t *testing.T) {
	att := &fakeAttendanceService{
		records: map[string]attendance.DayRecordResponse{
			"emp-1|2024-02-01": {
				EmployeeID:       "emp-1",
				Date:             "2024-02-01",
				FirstCheckIn:     "09:05",
				LastCheckOut:     "18:15",
				AttendingMinutes: 495,
				BreakMinutes:     60,
				Status:           string(attendance.StatusPresent),
			},
		},
	}
	svc := newTestService(att, []employee.Employee{
		{ID: "emp-1", Code: "0001", Name: "Ayu Lestari", Active: true},
	})

	buf, filename, err := svc.MonthlyAttendanceWorkbook(context.Background(), report.MonthlyReportRequest{Month: "2024-02"})
	require.NoError(t, err)
	assert.Equal(t, "attendance_2024-02.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)

	// Header plus one row per day of February.
	require.Len(t, rows, 1+29)
	assert.Equal(t, "Employee", rows[0][0])
	assert.Equal(t, "Status", rows[0][7])

	first := rows[1]
	assert.Equal(t, "Ayu Lestari", first[0])
	assert.Equal(t, "2024-02-01", first[2])
	assert.Equal(t, "09:05", first[3])
	assert.Equal(t, "495", first[5])
	assert.Equal(t, "present", first[7])
}

func TestMonthlyAttendanceWorkbookStopsAtToday(t *testing.T) {
	svc := newTestService(&fakeAttendanceService{}, []employee.Employee{
		{ID: "emp-1", Code: "0001", Name: "Ayu Lestari", Active: true},
	})

	// Clock is fixed at 2024-03-05: the March workbook covers five days.
	buf, _, err := svc.MonthlyAttendanceWorkbook(context.Background(), report.MonthlyReportRequest{Month: "2024-03"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	assert.Len(t, rows, 1+5)
}

func TestMonthlyAttendanceWorkbookUsesCalendarDate(t *testing.T) {
	svc := newTestService(&fakeAttendanceService{}, []employee.Employee{
		{ID: "emp-1", Code: "0001", Name: "Ayu Lestari", Active: true},
	})
	// Early on March 1st in Jakarta it is still February 29th in UTC; the
	// workbook bound follows the server's calendar date, so March 1st is in.
	jakarta := time.FixedZone("WIB", 7*60*60)
	svc.now = func() time.Time {
		return time.Date(2024, 3, 1, 1, 0, 0, 0, jakarta)
	}

	buf, _, err := svc.MonthlyAttendanceWorkbook(context.Background(), report.MonthlyReportRequest{Month: "2024-03"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	assert.Len(t, rows, 1+1)
}

func TestMonthlyAttendanceWorkbookSkipsFailedDays(t *testing.T) {
	att := &fakeAttendanceService{failOn: "emp-1|2024-02-02"}
	svc := newTestService(att, []employee.Employee{
		{ID: "emp-1", Code: "0001", Name: "Ayu Lestari", Active: true},
	})

	buf, _, err := svc.MonthlyAttendanceWorkbook(context.Background(), report.MonthlyReportRequest{Month: "2024-02"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	assert.Len(t, rows, 1+28)
}

func TestMonthlyAttendanceWorkbookRejectsBadMonth(t *testing.T) {
	svc := newTestService(&fakeAttendanceService{}, nil)

	for _, month := range []string{"", "2024", "2024-13", "03-2024"} {
		_, _, err := svc.MonthlyAttendanceWorkbook(context.Background(), report.MonthlyReportRequest{Month: month})
		var vErrs validator.ValidationErrors
		assert.ErrorAs(t, err, &vErrs, "month %q must be rejected", month)
	}
}
