package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/reliefsync/internal/domain"
)

// taskRefColumns are the columns both task tables share.
var taskRefColumns = []string{"id", "status", "assigned_volunteer", "updated_at"}

var emergencyColumns = []string{
	"id", "type", "priority", "location", "description", "people_count",
	"reporter_id", "status", "assigned_volunteer", "created_at", "updated_at",
}

var sosColumns = []string{
	"id", "sender_id", "sender_type", "location", "urgency", "message",
	"status", "assigned_volunteer", "created_at", "updated_at",
}

// tableFor returns the table holding tasks of kind.
func tableFor(kind domain.TaskKind) (string, error) {
	switch kind {
	case domain.TaskKindEmergency:
		return "emergencies", nil
	case domain.TaskKindSOS:
		return "sos_alerts", nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
}

// TaskRepository handles database operations for emergencies and SOS alerts.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTaskRef scans a single row into a TaskRef.
func scanTaskRef(row pgx.Row, kind domain.TaskKind) (*domain.TaskRef, error) {
	ref := domain.TaskRef{Kind: kind}
	err := row.Scan(&ref.ID, &ref.Status, &ref.AssignedVolunteers, &ref.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &ref, nil
}

// GetRef retrieves the shared task view by kind and ID.
func (r *TaskRepository) GetRef(ctx context.Context, kind domain.TaskKind, taskID string) (*domain.TaskRef, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select(taskRefColumns...).
		From(table).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetRef query for %s: %w", table, err)
	}

	return scanTaskRef(r.pool.QueryRow(ctx, query, args...), kind)
}

// GetRefForUpdate retrieves the shared task view with a FOR UPDATE lock (within transaction).
// Holding this lock serializes every assignment write on the task.
func (r *TaskRepository) GetRefForUpdate(ctx context.Context, tx pgx.Tx, kind domain.TaskKind, taskID string) (*domain.TaskRef, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select(taskRefColumns...).
		From(table).
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetRefForUpdate query for %s %s: %w", table, taskID, err)
	}

	return scanTaskRef(tx.QueryRow(ctx, query, args...), kind)
}

// UpdateRoster writes the denormalized volunteer field and the task status together.
func (r *TaskRepository) UpdateRoster(
	ctx context.Context,
	tx pgx.Tx,
	kind domain.TaskKind,
	taskID string,
	assigned *string,
	status domain.TaskStatus,
) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	if !kind.Allows(status) {
		return fmt.Errorf("%w: %s cannot be %s", domain.ErrInvalidStatus, kind, status)
	}

	query, args, err := psql.
		Update(table).
		Set("assigned_volunteer", assigned).
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateRoster query for %s %s: %w", table, taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task roster: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// ListReconcileCandidates returns IDs of tasks of kind that carry a volunteer
// field, have at least one active ledger row, or claim to be worked on.
// Every other task is consistent by construction.
func (r *TaskRepository) ListReconcileCandidates(ctx context.Context, kind domain.TaskKind) ([]string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select("id").
		From(table).
		Where(sq.Or{
			sq.NotEq{"assigned_volunteer": nil},
			sq.Eq{"status": []domain.TaskStatus{
				domain.TaskStatusAssigned,
				domain.TaskStatusInProgress,
				domain.TaskStatusResponded,
			}},
			sq.Expr(
				"id IN (SELECT request_id FROM volunteer_assignments WHERE assignment_type = ? AND status IN (?, ?, ?))",
				kind,
				domain.AssignmentStatusAssigned,
				domain.AssignmentStatusAccepted,
				domain.AssignmentStatusInProgress,
			),
		}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListReconcileCandidates query for %s: %w", table, err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reconcile candidates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return ids, nil
}

// CreateEmergency inserts a new emergency request.
// Returns the emergency with ID, CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) CreateEmergency(ctx context.Context, e *domain.Emergency) (*domain.Emergency, error) {
	if e.Status == "" {
		e.Status = domain.TaskStatusPending
	}
	if e.Priority == "" {
		e.Priority = domain.PriorityMedium
	}

	query, args, err := psql.
		Insert("emergencies").
		Columns("type", "priority", "location", "description", "people_count", "reporter_id", "status").
		Values(e.Type, e.Priority, e.Location, e.Description, e.PeopleCount, e.ReporterID, e.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateEmergency query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create emergency: %w", err)
	}

	return e, nil
}

// CreateSOSAlert inserts a new SOS alert.
func (r *TaskRepository) CreateSOSAlert(ctx context.Context, a *domain.SOSAlert) (*domain.SOSAlert, error) {
	if a.Status == "" {
		a.Status = domain.TaskStatusActive
	}

	query, args, err := psql.
		Insert("sos_alerts").
		Columns("sender_id", "sender_type", "location", "urgency", "message", "status").
		Values(a.SenderID, a.SenderType, a.Location, a.Urgency, a.Message, a.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build CreateSOSAlert query: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create sos alert: %w", err)
	}

	return a, nil
}

// GetEmergency retrieves an emergency request by ID.
func (r *TaskRepository) GetEmergency(ctx context.Context, id string) (*domain.Emergency, error) {
	query, args, err := psql.
		Select(emergencyColumns...).
		From("emergencies").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetEmergency query: %w", err)
	}

	var e domain.Emergency
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&e.ID,
		&e.Type,
		&e.Priority,
		&e.Location,
		&e.Description,
		&e.PeopleCount,
		&e.ReporterID,
		&e.Status,
		&e.AssignedVolunteers,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("query emergency: %w", err)
	}
	return &e, nil
}

// GetSOSAlert retrieves an SOS alert by ID.
func (r *TaskRepository) GetSOSAlert(ctx context.Context, id string) (*domain.SOSAlert, error) {
	query, args, err := psql.
		Select(sosColumns...).
		From("sos_alerts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetSOSAlert query: %w", err)
	}

	var a domain.SOSAlert
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.SenderID,
		&a.SenderType,
		&a.Location,
		&a.Urgency,
		&a.Message,
		&a.Status,
		&a.AssignedVolunteers,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("query sos alert: %w", err)
	}
	return &a, nil
}
