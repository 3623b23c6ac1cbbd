package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/reliefsync/internal/domain"
)

// StatsFilters holds filters for dashboard statistics queries.
type StatsFilters struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	VolunteerID *string // Optional: filter by specific volunteer
}

// VolunteerStatsResult holds statistics for a single volunteer.
type VolunteerStatsResult struct {
	VolunteerID          string
	VolunteerName        string
	AssignmentsCompleted int
	AssignmentsCancelled int
	AssignmentsActive    int
}

// KindStatsResult holds task counts for one task kind.
type KindStatsResult struct {
	Kind          domain.TaskKind
	TotalCreated  int
	TasksByStatus map[string]int
	Unassigned    int
}

// GetVolunteerStats retrieves per-volunteer ledger statistics.
// Cancelled rows carry no completion time, so they are counted by when they were assigned.
func (r *TaskRepository) GetVolunteerStats(ctx context.Context, filters StatsFilters) ([]VolunteerStatsResult, error) {
	qb := psql.
		Select(
			"u.id",
			"u.name",
		).
		Column(sq.Expr(
			"COUNT(CASE WHEN va.status = ? AND va.completed_at >= ? AND va.completed_at <= ? THEN 1 END)",
			domain.AssignmentStatusCompleted, filters.PeriodStart, filters.PeriodEnd,
		)).
		Column(sq.Expr(
			"COUNT(CASE WHEN va.status = ? AND va.assigned_at >= ? AND va.assigned_at <= ? THEN 1 END)",
			domain.AssignmentStatusCancelled, filters.PeriodStart, filters.PeriodEnd,
		)).
		Column(sq.Expr(
			"COUNT(CASE WHEN va.status IN (?, ?, ?) THEN 1 END)",
			domain.AssignmentStatusAssigned, domain.AssignmentStatusAccepted, domain.AssignmentStatusInProgress,
		)).
		From("users u").
		LeftJoin("volunteer_assignments va ON va.volunteer_id = u.id").
		Where(sq.Eq{"u.role": domain.UserRoleVolunteer})

	if filters.VolunteerID != nil {
		qb = qb.Where(sq.Eq{"u.id": *filters.VolunteerID})
	}

	query, args, err := qb.GroupBy("u.id", "u.name").OrderBy("u.name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build volunteer stats query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query volunteer stats: %w", err)
	}
	defer rows.Close()

	var results []VolunteerStatsResult
	for rows.Next() {
		var result VolunteerStatsResult
		err := rows.Scan(
			&result.VolunteerID,
			&result.VolunteerName,
			&result.AssignmentsCompleted,
			&result.AssignmentsCancelled,
			&result.AssignmentsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("scan volunteer stats: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteer stats rows: %w", err)
	}

	return results, nil
}

// GetKindStats retrieves task statistics for one task kind.
func (r *TaskRepository) GetKindStats(ctx context.Context, kind domain.TaskKind, filters StatsFilters) (*KindStatsResult, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.
		Select("COUNT(*)").
		From(table).
		Where(sq.GtOrEq{"created_at": filters.PeriodStart}).
		Where(sq.LtOrEq{"created_at": filters.PeriodEnd}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build created count query for %s: %w", table, err)
	}

	var totalCreated int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&totalCreated); err != nil {
		return nil, fmt.Errorf("count %s created: %w", table, err)
	}

	// Current state, not historical
	query, args, err = psql.
		Select("status", "COUNT(*)").
		From(table).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status count query for %s: %w", table, err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s by status: %w", table, err)
	}
	defer rows.Close()

	tasksByStatus := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		tasksByStatus[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status rows: %w", err)
	}

	query, args, err = psql.
		Select("COUNT(*)").
		From(table).
		Where(sq.Eq{"assigned_volunteer": nil}).
		Where(sq.Eq{"status": []domain.TaskStatus{
			domain.TaskStatusPending,
			domain.TaskStatusActive,
		}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unassigned count query for %s: %w", table, err)
	}

	var unassigned int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&unassigned); err != nil {
		return nil, fmt.Errorf("count unassigned %s: %w", table, err)
	}

	return &KindStatsResult{
		Kind:          kind,
		TotalCreated:  totalCreated,
		TasksByStatus: tasksByStatus,
		Unassigned:    unassigned,
	}, nil
}
