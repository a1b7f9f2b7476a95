package report

import "github.com/leavedesk/leave-backend-go/internal/pkg/validator"

type Period string

const (
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

type SummaryRequest struct {
	Period       string  `json:"period"`
	Year         int     `json:"year"`
	Month        *int    `json:"month,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	p := Period(r.Period)
	if p != PeriodMonthly && p != PeriodYearly {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be monthly or yearly",
		})
	}

	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive integer",
		})
	}

	if p == PeriodMonthly {
		if r.Month == nil || *r.Month < 1 || *r.Month > 12 {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be between 1 and 12 for monthly reports",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DepartmentSummary carries both metrics side by side. RequestCount counts
// approved requests intersecting the window; LeaveDays sums working-day
// overlaps. The two are never interchangeable.
type DepartmentSummary struct {
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	RequestCount   int    `json:"request_count"`
	LeaveDays      int    `json:"leave_days"`
}

type Summary struct {
	Period      string              `json:"period"`
	Year        int                 `json:"year"`
	Month       *int                `json:"month,omitempty"`
	Departments []DepartmentSummary `json:"departments"`
	TotalDays   int                 `json:"total_days"`
	TotalCount  int                 `json:"total_requests"`
}
