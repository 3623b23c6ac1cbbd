package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/reliefsync/internal/domain"
)

// assignmentColumns reads a ledger row joined with the volunteer's display name.
var assignmentColumns = []string{
	"a.id", "a.volunteer_id", "u.name", "a.request_id", "a.assignment_type",
	"a.status", "a.notes", "a.assigned_at", "a.started_at", "a.completed_at",
}

// activeOnConflict matches the partial unique index on active rows.
const activeOnConflict = "ON CONFLICT (volunteer_id, request_id, assignment_type) " +
	"WHERE status IN ('ASSIGNED', 'ACCEPTED', 'IN_PROGRESS') DO NOTHING"

// AssignmentRepository handles database operations for the volunteer assignment ledger.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

func selectAssignments() sq.SelectBuilder {
	return psql.
		Select(assignmentColumns...).
		From("volunteer_assignments a").
		Join("users u ON u.id = a.volunteer_id")
}

// scanAssignment scans a single row into an Assignment struct.
func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.ID,
		&a.VolunteerID,
		&a.VolunteerName,
		&a.RequestID,
		&a.Kind,
		&a.Status,
		&a.Notes,
		&a.AssignedAt,
		&a.StartedAt,
		&a.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("scan assignment: %w", err)
	}
	return &a, nil
}

// scanAssignments scans multiple rows into a slice of Assignment structs.
func scanAssignments(rows pgx.Rows) ([]*domain.Assignment, error) {
	defer rows.Close()

	var out []*domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// GetByID retrieves a ledger row by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	query, args, err := selectAssignments().
		Where(sq.Eq{"a.id": assignmentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for assignment: %w", err)
	}

	return scanAssignment(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a ledger row by ID with FOR UPDATE lock (within transaction).
func (r *AssignmentRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, assignmentID string) (*domain.Assignment, error) {
	query, args, err := selectAssignments().
		Where(sq.Eq{"a.id": assignmentID}).
		Suffix("FOR UPDATE OF a").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for assignment %s: %w", assignmentID, err)
	}

	return scanAssignment(tx.QueryRow(ctx, query, args...))
}

// FindActive returns the active row for a (volunteer, task, kind) triple.
// Returns ErrAssignmentNotFound if the volunteer holds no active row on the task.
func (r *AssignmentRepository) FindActive(
	ctx context.Context,
	q Querier,
	volunteerID string,
	kind domain.TaskKind,
	requestID string,
) (*domain.Assignment, error) {
	query, args, err := selectAssignments().
		Where(sq.Eq{
			"a.volunteer_id":    volunteerID,
			"a.request_id":      requestID,
			"a.assignment_type": kind,
			"a.status":          domain.ActiveAssignmentStatuses,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindActive query: %w", err)
	}

	return scanAssignment(q.QueryRow(ctx, query, args...))
}

// ListForTask returns every ledger row of a task in insertion order.
func (r *AssignmentRepository) ListForTask(ctx context.Context, q Querier, kind domain.TaskKind, requestID string) ([]*domain.Assignment, error) {
	query, args, err := selectAssignments().
		Where(sq.Eq{
			"a.request_id":      requestID,
			"a.assignment_type": kind,
		}).
		OrderBy("a.seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListForTask query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task assignments: %w", err)
	}

	return scanAssignments(rows)
}

// ListForVolunteer returns a volunteer's assignments, newest first.
func (r *AssignmentRepository) ListForVolunteer(ctx context.Context, volunteerID string) ([]*domain.Assignment, error) {
	query, args, err := selectAssignments().
		Where(sq.Eq{"a.volunteer_id": volunteerID}).
		OrderBy("a.assigned_at DESC", "a.seq DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListForVolunteer query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query volunteer assignments: %w", err)
	}

	return scanAssignments(rows)
}

// Create inserts an ASSIGNED ledger row within a transaction.
// Returns ErrAlreadyAssigned if the volunteer already holds an active row on the task.
func (r *AssignmentRepository) Create(ctx context.Context, tx pgx.Tx, a *domain.Assignment) (*domain.Assignment, error) {
	if a.Status == "" {
		a.Status = domain.AssignmentStatusAssigned
	}

	query, args, err := psql.
		Insert("volunteer_assignments").
		Columns("volunteer_id", "request_id", "assignment_type", "status", "notes").
		Values(a.VolunteerID, a.RequestID, a.Kind, a.Status, a.Notes).
		Suffix(activeOnConflict + " RETURNING id, assigned_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for assignment: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&a.ID, &a.AssignedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	return a, nil
}

// UpdateStatus moves a ledger row from oldStatus to newStatus with optimistic locking.
// started_at is stamped on the first IN_PROGRESS, completed_at on COMPLETED.
func (r *AssignmentRepository) UpdateStatus(
	ctx context.Context,
	tx pgx.Tx,
	assignmentID string,
	oldStatus domain.AssignmentStatus,
	newStatus domain.AssignmentStatus,
	notes *string,
	now time.Time,
) (*domain.Assignment, error) {
	ub := psql.
		Update("volunteer_assignments").
		Set("status", newStatus).
		Where(sq.Eq{
			"id":     assignmentID,
			"status": oldStatus,
		})

	switch newStatus {
	case domain.AssignmentStatusInProgress:
		ub = ub.Set("started_at", sq.Expr("COALESCE(started_at, ?)", now))
	case domain.AssignmentStatusCompleted:
		ub = ub.Set("completed_at", now)
	}
	if notes != nil {
		ub = ub.Set("notes", *notes)
	}

	query, args, err := ub.
		Suffix("RETURNING started_at, completed_at, notes").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build UpdateStatus query for assignment %s: %w", assignmentID, err)
	}

	updated := domain.Assignment{ID: assignmentID, Status: newStatus}
	err = tx.QueryRow(ctx, query, args...).Scan(&updated.StartedAt, &updated.CompletedAt, &updated.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: assignment %s is no longer %s", domain.ErrInvalidTransition, assignmentID, oldStatus)
		}
		return nil, fmt.Errorf("update assignment status: %w", err)
	}

	return &updated, nil
}
