package report

import (
	"bytes"
	"context"
)

// ReportService exports reconciled attendance as downloadable workbooks.
type ReportService interface {
	// MonthlyAttendanceWorkbook renders one xlsx workbook covering every
	// active employee for the given month. Returns the file content and
	// the suggested filename.
	MonthlyAttendanceWorkbook(ctx context.Context, req MonthlyReportRequest) (*bytes.Buffer, string, error)
}
