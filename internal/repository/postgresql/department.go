package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/leavedesk/leave-backend-go/internal/domain/department"
	"github.com/leavedesk/leave-backend-go/internal/pkg/database"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

func (r *departmentRepositoryImpl) Create(ctx context.Context, dept department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO departments (id, name, head_id, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, dept.Name, dept.HeadID).
		Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return department.Department{}, department.ErrNameExists
		}
		return department.Department{}, err
	}

	return dept, nil
}

func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.name, d.head_id, d.created_at, d.updated_at,
			   h.full_name AS head_name,
			   (SELECT COUNT(*) FROM users u WHERE u.department_id = d.id) AS member_count
		FROM departments d
		LEFT JOIN users h ON d.head_id = h.id
		WHERE d.id = $1
	`

	var dept department.Department
	err := q.QueryRow(ctx, query, id).Scan(
		&dept.ID, &dept.Name, &dept.HeadID, &dept.CreatedAt, &dept.UpdatedAt,
		&dept.HeadName, &dept.MemberCount,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, err
	}

	return dept, nil
}

func (r *departmentRepositoryImpl) GetByName(ctx context.Context, name string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, head_id, created_at, updated_at
		FROM departments
		WHERE name = $1
	`

	var dept department.Department
	err := q.QueryRow(ctx, query, name).Scan(
		&dept.ID, &dept.Name, &dept.HeadID, &dept.CreatedAt, &dept.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, err
	}

	return dept, nil
}

func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.name, d.head_id, d.created_at, d.updated_at,
			   h.full_name AS head_name,
			   (SELECT COUNT(*) FROM users u WHERE u.department_id = d.id) AS member_count
		FROM departments d
		LEFT JOIN users h ON d.head_id = h.id
		ORDER BY d.name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]department.Department, 0)
	for rows.Next() {
		var dept department.Department
		if err := rows.Scan(
			&dept.ID, &dept.Name, &dept.HeadID, &dept.CreatedAt, &dept.UpdatedAt,
			&dept.HeadName, &dept.MemberCount,
		); err != nil {
			return nil, err
		}
		departments = append(departments, dept)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return departments, nil
}

func (r *departmentRepositoryImpl) SetHead(ctx context.Context, id string, headID *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET head_id = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, headID, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return department.ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to set head for department %s: %w", id, err)
	}
	return nil
}

func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return department.ErrDepartmentNotFound
	}
	return nil
}
