package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/pkg/database"
)

type quotaRepositoryImpl struct {
	db *database.DB
}

func NewQuotaRepository(db *database.DB) leave.QuotaRepository {
	return &quotaRepositoryImpl{db: db}
}

func (r *quotaRepositoryImpl) GetByEmployeeCategoryYear(ctx context.Context, employeeID string, category leave.Category, year int) (leave.Quota, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, category, year, allocated, used, created_at, updated_at
		FROM leave_quotas
		WHERE employee_id = $1 AND category = $2 AND year = $3
	`

	var quota leave.Quota
	err := q.QueryRow(ctx, query, employeeID, category, year).Scan(
		&quota.ID, &quota.EmployeeID, &quota.Category, &quota.Year,
		&quota.Allocated, &quota.Used, &quota.CreatedAt, &quota.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Quota{}, leave.ErrQuotaNotFound
		}
		return leave.Quota{}, err
	}

	return quota, nil
}

func (r *quotaRepositoryImpl) GetByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]leave.Quota, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, category, year, allocated, used, created_at, updated_at
		FROM leave_quotas
		WHERE employee_id = $1 AND year = $2
		ORDER BY category
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotas := make([]leave.Quota, 0)
	for rows.Next() {
		var quota leave.Quota
		if err := rows.Scan(
			&quota.ID, &quota.EmployeeID, &quota.Category, &quota.Year,
			&quota.Allocated, &quota.Used, &quota.CreatedAt, &quota.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quota row: %w", err)
		}
		quotas = append(quotas, quota)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return quotas, nil
}

// Deduct increments the used counter in a single statement so that
// concurrent approvals never lose an update.
func (r *quotaRepositoryImpl) Deduct(ctx context.Context, employeeID string, category leave.Category, year int, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_quotas
		SET used = used + $1, updated_at = NOW()
		WHERE employee_id = $2 AND category = $3 AND year = $4
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query, days, employeeID, category, year).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrQuotaNotFound
		}
		return fmt.Errorf("failed to deduct quota for employee %s: %w", employeeID, err)
	}
	return nil
}

func (r *quotaRepositoryImpl) SetAllocationForAll(ctx context.Context, category leave.Category, year int, days int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_quotas (id, employee_id, category, year, allocated, used, created_at, updated_at)
		SELECT uuidv7(), u.id, $1, $2, $3, 0, NOW(), NOW()
		FROM users u
		ON CONFLICT (employee_id, category, year)
		DO UPDATE SET allocated = EXCLUDED.allocated, updated_at = NOW()
	`

	tag, err := q.Exec(ctx, query, category, year, days)
	if err != nil {
		return 0, fmt.Errorf("failed to set allocation for all employees: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *quotaRepositoryImpl) ResetUsedForAll(ctx context.Context, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_quotas
		SET used = 0, updated_at = NOW()
		WHERE year = $1 AND used <> 0
	`

	tag, err := q.Exec(ctx, query, year)
	if err != nil {
		return 0, fmt.Errorf("failed to reset used counters for year %d: %w", year, err)
	}
	return tag.RowsAffected(), nil
}
