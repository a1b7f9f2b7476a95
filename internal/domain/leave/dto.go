package leave

import (
	"mime/multipart"
	"time"

	"github.com/leavedesk/leave-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	Category     string   `json:"category"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Reason       string   `json:"reason"`
	AlternateIDs []string `json:"alternate_ids,omitempty"`

	// Populated by the handler, never from the request body.
	EmployeeID string         `json:"-"`
	File       multipart.File `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Category(r.Category).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of annual, casual, other",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	for _, id := range r.AlternateIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "alternate_ids",
				Message: "alternate_ids must not contain empty entries",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecisionRequest struct {
	Action  string  `json:"action"`
	Remarks *string `json:"remarks,omitempty"`
}

func (r *DecisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Decision(r.Action).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be approve or decline",
		})
	}

	if r.Remarks != nil && len(*r.Remarks) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "remarks",
			Message: "remarks must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AlternateResponseRequest struct {
	Response string `json:"response"`
}

func (r *AlternateResponseRequest) Validate() error {
	var errs validator.ValidationErrors

	resp := AlternateResponse(r.Response)
	if resp != AlternateOK && resp != AlternateSorry {
		errs = append(errs, validator.ValidationError{
			Field:   "response",
			Message: "response must be ok or sorry",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetAllocationRequest struct {
	Category string `json:"category"`
	Year     int    `json:"year"`
	Days     int    `json:"days"`
}

func (r *SetAllocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Category(r.Category).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of annual, casual, other",
		})
	}

	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive integer",
		})
	}

	if r.Days < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "days",
			Message: "days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResetUsedRequest struct {
	Year int `json:"year"`
}

func (r *ResetUsedRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive integer",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AlternateResponseDTO struct {
	ID            string  `json:"id"`
	RequestID     string  `json:"request_id,omitempty"`
	ColleagueID   string  `json:"colleague_id"`
	ColleagueName *string `json:"colleague_name,omitempty"`
	Response      string  `json:"response"`
}

// ToAlternateResponse is used when an alternate request is returned on its
// own, outside the parent leave request, so RequestID is included.
func ToAlternateResponse(alt AlternateRequest) AlternateResponseDTO {
	return AlternateResponseDTO{
		ID:            alt.ID,
		RequestID:     alt.RequestID,
		ColleagueID:   alt.ColleagueID,
		ColleagueName: alt.ColleagueName,
		Response:      string(alt.Response),
	}
}

type AuditEntryResponse struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	ActorID   string    `json:"actor_id"`
	ActorName *string   `json:"actor_name,omitempty"`
	Action    string    `json:"action"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToAuditEntryResponse(e AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID,
		RequestID: e.RequestID,
		ActorID:   e.ActorID,
		ActorName: e.ActorName,
		Action:    e.Action,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

type LeaveRequestResponse struct {
	ID             string                 `json:"id"`
	EmployeeID     string                 `json:"employee_id"`
	EmployeeName   *string                `json:"employee_name,omitempty"`
	DepartmentID   string                 `json:"department_id"`
	DepartmentName *string                `json:"department_name,omitempty"`
	Category       string                 `json:"category"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	TotalDays      int                    `json:"total_days"`
	Reason         string                 `json:"reason"`
	AttachmentURL  *string                `json:"attachment_url,omitempty"`
	Status         string                 `json:"status"`
	ApprovedByHoD  bool                   `json:"approved_by_hod"`
	ApprovedByHR   bool                   `json:"approved_by_hr"`
	HoDRemark      *string                `json:"hod_remark,omitempty"`
	HRRemark       *string                `json:"hr_remark,omitempty"`
	Alternates     []AlternateResponseDTO `json:"alternates,omitempty"`
	SubmittedAt    time.Time              `json:"submitted_at"`
}

// DisplayStatus collapses the internal state into the three statuses the
// clients show: pending, approved, declined.
func DisplayStatus(s RequestState) string {
	switch s {
	case StateApproved:
		return "approved"
	case StateDeclined:
		return "declined"
	}
	return "pending"
}

func ToLeaveRequestResponse(req LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:             req.ID,
		EmployeeID:     req.EmployeeID,
		EmployeeName:   req.EmployeeName,
		DepartmentID:   req.DepartmentID,
		DepartmentName: req.DepartmentName,
		Category:       string(req.Category),
		StartDate:      req.StartDate.Format("2006-01-02"),
		EndDate:        req.EndDate.Format("2006-01-02"),
		TotalDays:      req.TotalDays,
		Reason:         req.Reason,
		AttachmentURL:  req.AttachmentURL,
		Status:         DisplayStatus(req.State),
		ApprovedByHoD:  req.State.ApprovedByHoD(),
		ApprovedByHR:   req.State.ApprovedByHR(),
		HoDRemark:      req.HoDRemark,
		HRRemark:       req.HRRemark,
		SubmittedAt:    req.SubmittedAt,
	}
	for _, alt := range req.Alternates {
		resp.Alternates = append(resp.Alternates, AlternateResponseDTO{
			ID:            alt.ID,
			ColleagueID:   alt.ColleagueID,
			ColleagueName: alt.ColleagueName,
			Response:      string(alt.Response),
		})
	}
	return resp
}

type QuotaResponse struct {
	Category  string `json:"category"`
	Year      int    `json:"year"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

func ToQuotaResponse(q Quota) QuotaResponse {
	return QuotaResponse{
		Category:  string(q.Category),
		Year:      q.Year,
		Allocated: q.Allocated,
		Used:      q.Used,
		Remaining: q.Remaining(),
	}
}

type BulkResult struct {
	RowsAffected int64 `json:"rows_affected"`
}
