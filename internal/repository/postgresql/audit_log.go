package postgresql

import (
	"context"
	"fmt"

	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/pkg/database"
)

type auditLogRepositoryImpl struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) leave.AuditLogRepository {
	return &auditLogRepositoryImpl{db: db}
}

func (r *auditLogRepositoryImpl) Append(ctx context.Context, entry leave.AuditEntry) (leave.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_audit_logs (id, request_id, actor_id, action, notes, created_at)
		VALUES (uuidv7(), $1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.RequestID, entry.ActorID, entry.Action, entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return leave.AuditEntry{}, fmt.Errorf("failed to append audit entry: %w", err)
	}

	return entry, nil
}

func (r *auditLogRepositoryImpl) ListByRequest(ctx context.Context, requestID string) ([]leave.AuditEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT al.id, al.request_id, al.actor_id, al.action, al.notes, al.created_at,
		       u.full_name AS actor_name
		FROM leave_audit_logs al
		JOIN users u ON al.actor_id = u.id
		WHERE al.request_id = $1
		ORDER BY al.created_at ASC
	`

	rows, err := q.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]leave.AuditEntry, 0)
	for rows.Next() {
		var entry leave.AuditEntry
		if err := rows.Scan(
			&entry.ID, &entry.RequestID, &entry.ActorID, &entry.Action,
			&entry.Notes, &entry.CreatedAt, &entry.ActorName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}
