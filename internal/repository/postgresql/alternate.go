package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/pkg/database"
)

type alternateRepositoryImpl struct {
	db *database.DB
}

func NewAlternateRepository(db *database.DB) leave.AlternateRepository {
	return &alternateRepositoryImpl{db: db}
}

func (r *alternateRepositoryImpl) Create(ctx context.Context, alt leave.AlternateRequest) (leave.AlternateRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO alternate_requests (id, request_id, colleague_id, response, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		alt.RequestID, alt.ColleagueID, alt.Response,
	).Scan(&alt.ID, &alt.CreatedAt, &alt.UpdatedAt)
	if err != nil {
		return leave.AlternateRequest{}, fmt.Errorf("failed to create alternate request: %w", err)
	}

	return alt, nil
}

func (r *alternateRepositoryImpl) GetByID(ctx context.Context, id string) (leave.AlternateRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ar.id, ar.request_id, ar.colleague_id, ar.response, ar.created_at, ar.updated_at,
		       u.full_name AS colleague_name
		FROM alternate_requests ar
		JOIN users u ON ar.colleague_id = u.id
		WHERE ar.id = $1
	`

	var alt leave.AlternateRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&alt.ID, &alt.RequestID, &alt.ColleagueID, &alt.Response,
		&alt.CreatedAt, &alt.UpdatedAt, &alt.ColleagueName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.AlternateRequest{}, leave.ErrAlternateNotFound
		}
		return leave.AlternateRequest{}, err
	}

	return alt, nil
}

func (r *alternateRepositoryImpl) ListByRequest(ctx context.Context, requestID string) ([]leave.AlternateRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ar.id, ar.request_id, ar.colleague_id, ar.response, ar.created_at, ar.updated_at,
		       u.full_name AS colleague_name
		FROM alternate_requests ar
		JOIN users u ON ar.colleague_id = u.id
		WHERE ar.request_id = $1
		ORDER BY ar.created_at ASC
	`

	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alternates := make([]leave.AlternateRequest, 0)
	for rows.Next() {
		var alt leave.AlternateRequest
		if err := rows.Scan(
			&alt.ID, &alt.RequestID, &alt.ColleagueID, &alt.Response,
			&alt.CreatedAt, &alt.UpdatedAt, &alt.ColleagueName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alternate request row: %w", err)
		}
		alternates = append(alternates, alt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return alternates, nil
}

func (r *alternateRepositoryImpl) UpdateResponse(ctx context.Context, id string, response leave.AlternateResponse) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE alternate_requests
		SET response = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, response, id).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrAlternateNotFound
		}
		return fmt.Errorf("failed to update alternate response %s: %w", id, err)
	}
	return nil
}
