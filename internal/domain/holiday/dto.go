package holiday

import (
	"time"

	"github.com/leavedesk/leave-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name     string `json:"holiday_name"`
	Date     string `json:"holiday_date"`
	SpanDays int    `json:"span_days"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name must not exceed 255 characters",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_date",
			Message: "holiday_date must be in YYYY-MM-DD format",
		})
	}

	if r.SpanDays < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "span_days",
			Message: "span_days must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateHolidayRequest struct {
	ID       string  `json:"-"`
	Name     *string `json:"holiday_name,omitempty"`
	Date     *string `json:"holiday_date,omitempty"`
	SpanDays *int    `json:"span_days,omitempty"`
}

func (r *UpdateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_id",
			Message: "holiday_id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name must not be empty",
		})
	}

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "holiday_date",
				Message: "holiday_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.SpanDays != nil && *r.SpanDays < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "span_days",
			Message: "span_days must be at least 1",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Date     string    `json:"date"`
	SpanDays int       `json:"span_days"`
	EndDate  string    `json:"end_date"`
	Created  time.Time `json:"created_at"`
}

func ToHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:       h.ID,
		Name:     h.Name,
		Date:     CivilDate(h.Date).Format("2006-01-02"),
		SpanDays: h.SpanDays,
		EndDate:  h.End().Format("2006-01-02"),
		Created:  h.CreatedAt,
	}
}
