package leave

import (
	"context"
	"time"

	"github.com/leavedesk/leave-backend-go/internal/domain/user"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	GetByEmployeeID(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	// PendingForHoD returns pending requests in one department;
	// PendingForHR returns hod_approved requests across departments.
	PendingForHoD(ctx context.Context, departmentID string) ([]LeaveRequest, error)
	PendingForHR(ctx context.Context) ([]LeaveRequest, error)
	// ApprovedIntersecting returns approved requests whose date range
	// intersects [periodStart, periodEnd], optionally per department.
	ApprovedIntersecting(ctx context.Context, periodStart, periodEnd time.Time, departmentID *string) ([]LeaveRequest, error)
	// UpdateDecision writes the new state and the remark for the deciding
	// role's stage (HoD or HR) in one statement. The write only lands if
	// the request is still in fromState; ErrInvalidTransition otherwise,
	// so the second of two racing decisions loses.
	UpdateDecision(ctx context.Context, id string, fromState, state RequestState, role user.Role, remark *string, decidedBy string, decidedAt time.Time) error
}

// QuotaRepository - interface for leave_quotas table
type QuotaRepository interface {
	GetByEmployeeCategoryYear(ctx context.Context, employeeID string, category Category, year int) (Quota, error)
	GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]Quota, error)
	// Deduct performs a single atomic used = used + days update.
	Deduct(ctx context.Context, employeeID string, category Category, year int, days int) error
	// SetAllocationForAll upserts the allocation for every employee and
	// reports the number of ledger rows written.
	SetAllocationForAll(ctx context.Context, category Category, year int, days int) (int64, error)
	// ResetUsedForAll zeroes used counters for the year and reports the
	// number of rows touched.
	ResetUsedForAll(ctx context.Context, year int) (int64, error)
}

// AuditLogRepository - interface for leave_audit_logs table
type AuditLogRepository interface {
	Append(ctx context.Context, entry AuditEntry) (AuditEntry, error)
	ListByRequest(ctx context.Context, requestID string) ([]AuditEntry, error)
}

// AlternateRepository - interface for alternate_requests table
type AlternateRepository interface {
	Create(ctx context.Context, alt AlternateRequest) (AlternateRequest, error)
	GetByID(ctx context.Context, id string) (AlternateRequest, error)
	ListByRequest(ctx context.Context, requestID string) ([]AlternateRequest, error)
	UpdateResponse(ctx context.Context, id string, response AlternateResponse) error
}
