package leave

import "time"

type Category string

const (
	CategoryAnnual Category = "annual"
	CategoryCasual Category = "casual"
	CategoryOther  Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryAnnual, CategoryCasual, CategoryOther:
		return true
	}
	return false
}

// RequestState is the single source of truth for a request's position in
// the approval pipeline. Display booleans are derived from it, never
// stored independently.
type RequestState string

const (
	StatePending     RequestState = "pending"
	StateHoDApproved RequestState = "hod_approved"
	StateApproved    RequestState = "approved"
	StateDeclined    RequestState = "declined"
)

// Terminal reports whether the state accepts no further transitions.
func (s RequestState) Terminal() bool {
	return s == StateApproved || s == StateDeclined
}

// ApprovedByHoD derives the HoD-stage display flag.
func (s RequestState) ApprovedByHoD() bool {
	return s == StateHoDApproved || s == StateApproved
}

// ApprovedByHR derives the HR-stage display flag.
func (s RequestState) ApprovedByHR() bool {
	return s == StateApproved
}

type AlternateResponse string

const (
	AlternatePending AlternateResponse = "pending"
	AlternateOK      AlternateResponse = "ok"
	AlternateSorry   AlternateResponse = "sorry"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID           string
	EmployeeID   string
	DepartmentID string
	Category     Category

	StartDate time.Time
	EndDate   time.Time
	TotalDays int // inclusive calendar-day count, fixed at creation

	Reason        string
	AttachmentURL *string

	State     RequestState
	HoDRemark *string
	HRRemark  *string
	DecidedBy *string
	DecidedAt *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships (for responses)
	EmployeeName   *string
	DepartmentName *string
	Alternates     []AlternateRequest
}

// Quota entity - one ledger row per employee, category and year.
type Quota struct {
	ID         string
	EmployeeID string
	Category   Category
	Year       int

	Allocated int
	Used      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining floors at zero for display. The stored Used value is never
// clamped and may exceed Allocated.
func (q Quota) Remaining() int {
	if r := q.Allocated - q.Used; r > 0 {
		return r
	}
	return 0
}

// AlternateRequest links a leave request to a colleague asked to cover
// duties. The response is informational only and never gates approval.
type AlternateRequest struct {
	ID          string
	RequestID   string
	ColleagueID string
	Response    AlternateResponse

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	ColleagueName *string
}

// AuditEntry - append-only log line for a leave request.
type AuditEntry struct {
	ID        string
	RequestID string
	ActorID   string
	Action    string
	Notes     *string
	CreatedAt time.Time

	// Relationships (for responses)
	ActorName *string
}

// Audit action labels.
const (
	ActionApplied     = "Applied"
	ActionHoDApproved = "Approved by HoD"
	ActionApproved    = "Approved"
	ActionDeclined    = "Declined"
)
