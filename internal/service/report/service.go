package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/employee"
	"github.com/presensia-hr/attendance-backend-go/internal/domain/report"
)

const sheetName = "Attendance"

var reportHeader = []string{
	"Employee", "Code", "Date", "First Check-In", "Last Check-Out",
	"Attending (min)", "Break (min)", "Status", "Overridden", "Override Notes",
}

type ReportServiceImpl struct {
	attendanceService attendance.AttendanceService
	employeeRepo      employee.EmployeeRepository

	now func() time.Time
}

func NewReportService(
	attendanceService attendance.AttendanceService,
	employeeRepo employee.EmployeeRepository,
) report.ReportService {
	return &ReportServiceImpl{
		attendanceService: attendanceService,
		employeeRepo:      employeeRepo,
		now:               time.Now,
	}
}

// MonthlyAttendanceWorkbook implements report.ReportService.
//
// Days are resolved through the same reconciliation pipeline the
// dashboard uses, so the workbook always reflects current ledgers and
// overrides. Future days of an in-progress month are left out.
func (s *ReportServiceImpl) MonthlyAttendanceWorkbook(ctx context.Context, req report.MonthlyReportRequest) (*bytes.Buffer, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	periodStart, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse report month: %w", err)
	}
	periodEnd := periodStart.AddDate(0, 1, 0)

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list employees for report: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", fmt.Errorf("failed to name report sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}
	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(reportHeader), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeaderCell, headerStyle); err != nil {
		return nil, "", fmt.Errorf("failed to style header: %w", err)
	}

	// Same calendar-date rule as the override window: compare the clock's
	// calendar components, not its absolute instant.
	current := s.now()
	today := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, time.UTC)

	row := 2
	for _, emp := range employees {
		for day := periodStart; day.Before(periodEnd); day = day.AddDate(0, 0, 1) {
			if day.After(today) {
				break
			}

			date := day.Format("2006-01-02")
			record, err := s.attendanceService.GetDay(ctx, emp.ID, date)
			if err != nil {
				// One broken day must not sink the whole workbook.
				slog.Error("skipping report row", "employee_id", emp.ID, "date", date, "error", err)
				continue
			}

			notes := ""
			if record.OverrideNotes != nil {
				notes = *record.OverrideNotes
			}

			values := []interface{}{
				emp.Name, emp.Code, record.Date,
				record.FirstCheckIn, record.LastCheckOut,
				record.AttendingMinutes, record.BreakMinutes,
				record.Status, record.Overridden, notes,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(sheetName, cell, v); err != nil {
					return nil, "", fmt.Errorf("failed to write report cell: %w", err)
				}
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", req.Month)
	return buf, filename, nil
}
