package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/domain/user"
	"github.com/leavedesk/leave-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.department_id, lr.category,
	lr.start_date, lr.end_date, lr.total_days,
	lr.reason, lr.attachment_url,
	lr.state, lr.hod_remark, lr.hr_remark, lr.decided_by, lr.decided_at,
	lr.submitted_at, lr.created_at, lr.updated_at,
	e.full_name AS employee_name,
	d.name AS department_name
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.DepartmentID, &req.Category,
		&req.StartDate, &req.EndDate, &req.TotalDays,
		&req.Reason, &req.AttachmentURL,
		&req.State, &req.HoDRemark, &req.HRRemark, &req.DecidedBy, &req.DecidedAt,
		&req.SubmittedAt, &req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName, &req.DepartmentName,
	)
	return req, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, department_id, category,
			start_date, end_date, total_days,
			reason, attachment_url, state,
			submitted_at, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			NOW(), NOW(), NOW()
		) RETURNING id, submitted_at, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.DepartmentID, request.Category,
		request.StartDate, request.EndDate, request.TotalDays,
		request.Reason, request.AttachmentURL, request.State,
	).Scan(&request.ID, &request.SubmittedAt, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN users e ON lr.employee_id = e.id
		JOIN departments d ON lr.department_id = d.id
		WHERE lr.id = $1
	`, leaveRequestColumns)

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}

	return req, nil
}

func (r *leaveRequestRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN users e ON lr.employee_id = e.id
		JOIN departments d ON lr.department_id = d.id
		WHERE lr.employee_id = $1
		ORDER BY lr.submitted_at DESC
	`, leaveRequestColumns)

	return r.queryMany(ctx, q, query, employeeID)
}

func (r *leaveRequestRepositoryImpl) PendingForHoD(ctx context.Context, departmentID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN users e ON lr.employee_id = e.id
		JOIN departments d ON lr.department_id = d.id
		WHERE lr.department_id = $1 AND lr.state = $2
		ORDER BY lr.submitted_at ASC
	`, leaveRequestColumns)

	return r.queryMany(ctx, q, query, departmentID, leave.StatePending)
}

func (r *leaveRequestRepositoryImpl) PendingForHR(ctx context.Context) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN users e ON lr.employee_id = e.id
		JOIN departments d ON lr.department_id = d.id
		WHERE lr.state = $1
		ORDER BY lr.submitted_at ASC
	`, leaveRequestColumns)

	return r.queryMany(ctx, q, query, leave.StateHoDApproved)
}

func (r *leaveRequestRepositoryImpl) ApprovedIntersecting(ctx context.Context, periodStart, periodEnd time.Time, departmentID *string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		JOIN users e ON lr.employee_id = e.id
		JOIN departments d ON lr.department_id = d.id
		WHERE lr.state = $1
		  AND lr.start_date <= $2
		  AND lr.end_date >= $3
	`, leaveRequestColumns)

	args := []interface{}{leave.StateApproved, periodEnd, periodStart}

	if departmentID != nil {
		query += " AND lr.department_id = $4"
		args = append(args, *departmentID)
	}
	query += " ORDER BY lr.start_date"

	return r.queryMany(ctx, q, query, args...)
}

func (r *leaveRequestRepositoryImpl) UpdateDecision(ctx context.Context, id string, fromState, state leave.RequestState, role user.Role, remark *string, decidedBy string, decidedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	remarkColumn := "hr_remark"
	if role == user.RoleHoD {
		remarkColumn = "hod_remark"
	}

	query := fmt.Sprintf(`
		UPDATE leave_requests
		SET state = $1, %s = $2, decided_by = $3, decided_at = $4, updated_at = NOW()
		WHERE id = $5 AND state = $6
		RETURNING id
	`, remarkColumn)

	var updatedID string
	err := q.QueryRow(ctx, query, state, remark, decidedBy, decidedAt, id, fromState).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Existence was checked by the caller; no row here means the
			// state moved underneath us.
			return leave.ErrInvalidTransition
		}
		return fmt.Errorf("failed to update decision for leave request %s: %w", id, err)
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) queryMany(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request row: %w", err)
		}
		requests = append(requests, req)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}
