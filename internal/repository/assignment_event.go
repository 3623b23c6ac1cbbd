package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/reliefsync/internal/domain"
)

// AssignmentEventRepository handles database operations for assignment events.
type AssignmentEventRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentEventRepository creates a new AssignmentEventRepository.
func NewAssignmentEventRepository(pool *pgxpool.Pool) *AssignmentEventRepository {
	return &AssignmentEventRepository{pool: pool}
}

// Create creates a new assignment event.
func (r *AssignmentEventRepository) Create(
	ctx context.Context,
	tx pgx.Tx,
	event *domain.AssignmentEvent,
) error {
	query, args, err := psql.
		Insert("assignment_events").
		Columns("assignment_id", "old_status", "new_status", "notes").
		Values(event.AssignmentID, event.OldStatus, event.NewStatus, event.Notes).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("create assignment event: %w", err)
	}

	return nil
}

// GetByAssignmentID retrieves all events for a ledger row, oldest first.
func (r *AssignmentEventRepository) GetByAssignmentID(ctx context.Context, assignmentID string) ([]*domain.AssignmentEvent, error) {
	query, args, err := psql.
		Select("id", "assignment_id", "old_status", "new_status", "notes", "created_at").
		From("assignment_events").
		Where(sq.Eq{"assignment_id": assignmentID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignment events: %w", err)
	}
	defer rows.Close()

	var events []*domain.AssignmentEvent
	for rows.Next() {
		var event domain.AssignmentEvent
		err := rows.Scan(
			&event.ID,
			&event.AssignmentID,
			&event.OldStatus,
			&event.NewStatus,
			&event.Notes,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assignment event: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return events, nil
}
