package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sekolahku/attendance-backend-go/internal/domain/report"
	"github.com/sekolahku/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	ClassReport(w http.ResponseWriter, r *http.Request)
	StudentReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// ClassReport implements ReportHandler.
func (h *reportHandlerImpl) ClassReport(w http.ResponseWriter, r *http.Request) {
	req := report.ClassReportRequest{
		ClassID:   chi.URLParam(r, "id"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.reportService.ClassReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// StudentReport implements ReportHandler.
func (h *reportHandlerImpl) StudentReport(w http.ResponseWriter, r *http.Request) {
	req := report.StudentReportRequest{
		StudentID: chi.URLParam(r, "id"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		GroupBy:   r.URL.Query().Get("group_by"),
	}

	result, err := h.reportService.StudentReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
