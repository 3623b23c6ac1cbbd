package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/repository"
)

// recordEvent appends a ledger status change to the audit log.
func recordEvent(
	ctx context.Context,
	eventRepo *repository.AssignmentEventRepository,
	tx pgx.Tx,
	assignmentID string,
	oldStatus *domain.AssignmentStatus,
	newStatus domain.AssignmentStatus,
	notes string,
) error {
	event := &domain.AssignmentEvent{
		AssignmentID: assignmentID,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Notes:        notes,
	}
	if err := eventRepo.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// storeTask writes roster and status to a locked task if either differs.
// Returns the task as it is after the call and whether anything was written.
func storeTask(
	ctx context.Context,
	taskRepo *repository.TaskRepository,
	tx pgx.Tx,
	task *domain.TaskRef,
	roster domain.Roster,
	status domain.TaskStatus,
) (*domain.TaskRef, bool, error) {
	field := roster.Field()
	if domain.SameField(field, task.AssignedVolunteers) && status == task.Status {
		return task, false, nil
	}

	if err := taskRepo.UpdateRoster(ctx, tx, task.Kind, task.ID, field, status); err != nil {
		return nil, false, fmt.Errorf("update task: %w", err)
	}

	updated := *task
	updated.AssignedVolunteers = field
	updated.Status = status
	return &updated, true, nil
}
