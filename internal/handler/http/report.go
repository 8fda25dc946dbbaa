package http

import (
	"fmt"
	"net/http"

	"github.com/presensia-hr/attendance-backend-go/internal/domain/report"
	"github.com/presensia-hr/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	DownloadMonthlyAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// DownloadMonthlyAttendance implements ReportHandler.
func (h *reportHandlerImpl) DownloadMonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	req := report.MonthlyReportRequest{
		Month: r.URL.Query().Get("month"),
	}

	buf, filename, err := h.reportService.MonthlyAttendanceWorkbook(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))

	if _, err := buf.WriteTo(w); err != nil {
		// Headers are already out; nothing left to do but log.
		return
	}
}
