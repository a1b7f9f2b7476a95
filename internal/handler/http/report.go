package http

import (
	"net/http"
	"strconv"

	"github.com/leavedesk/leave-backend-go/internal/domain/report"
	"github.com/leavedesk/leave-backend-go/internal/handler/http/response"
	reportService "github.com/leavedesk/leave-backend-go/internal/service/report"
)

type ReportHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
}

type ReportHandlerImpl struct {
	reportService *reportService.Service
}

func NewReportHandler(svc *reportService.Service) ReportHandler {
	return &ReportHandlerImpl{reportService: svc}
}

// Summary implements ReportHandler. Query parameters: period (monthly or
// yearly), year, month, and an optional department_id filter.
func (h *ReportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := report.SummaryRequest{Period: q.Get("period")}

	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "year must be an integer", nil)
			return
		}
		req.Year = year
	}

	if raw := q.Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "month must be an integer", nil)
			return
		}
		req.Month = &month
	}

	if raw := q.Get("department_id"); raw != "" {
		req.DepartmentID = &raw
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.reportService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
