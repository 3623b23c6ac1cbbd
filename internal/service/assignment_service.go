package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/lifecycle"
	"github.com/mtlprog/reliefsync/internal/notify"
	"github.com/mtlprog/reliefsync/internal/repository"
)

// assignmentCategories are notified after every ledger change.
var assignmentCategories = []notify.Category{
	notify.CategoryEmergency,
	notify.CategoryVolunteer,
	notify.CategoryDashboard,
}

// AssignmentService is the only sanctioned way to change the assignment
// ledger and the volunteer field on tasks together.
//
// Every operation locks the task row, writes the ledger, then the task's
// volunteer field and status, commits, and only then notifies. Holding the
// task lock serializes concurrent writers on the same task.
type AssignmentService struct {
	pool           *pgxpool.Pool
	taskRepo       *repository.TaskRepository
	assignmentRepo *repository.AssignmentRepository
	eventRepo      *repository.AssignmentEventRepository
	userRepo       *repository.UserRepository
	bus            *notify.Bus
	now            func() time.Time
}

// NewAssignmentService creates a new AssignmentService. A nil bus gets a private inline bus.
func NewAssignmentService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	assignmentRepo *repository.AssignmentRepository,
	eventRepo *repository.AssignmentEventRepository,
	userRepo *repository.UserRepository,
	bus *notify.Bus,
) *AssignmentService {
	if bus == nil {
		bus = notify.NewBus(nil)
	}
	return &AssignmentService{
		pool:           pool,
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		bus:            bus,
		now:            time.Now,
	}
}

// Assign puts a volunteer on a task.
//
// Returns OutcomeAlreadyAssigned without writing if the volunteer already
// holds an active row on the task, and OutcomeNotFound if the task or the
// volunteer does not exist.
func (s *AssignmentService) Assign(
	ctx context.Context,
	volunteerID string,
	taskID string,
	kind domain.TaskKind,
) (Result, error) {
	if err := checkKind(kind); err != nil {
		return Result{}, err
	}

	if !validID(taskID) {
		return notFound("task"), nil
	}
	if !validID(volunteerID) {
		return notFound("volunteer"), nil
	}

	volunteer, err := s.userRepo.GetByID(ctx, volunteerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return notFound("volunteer"), nil
		}
		return Result{}, fmt.Errorf("get volunteer: %w", err)
	}
	if !volunteer.IsVolunteer() {
		return Result{}, fmt.Errorf("%w: %s is %s", domain.ErrNotVolunteer, volunteerID, volunteer.Role)
	}
	if !domain.ValidRosterName(volunteer.Name) {
		return Result{}, fmt.Errorf("%w: volunteer name %q cannot be stored in a roster", domain.ErrInvalidInput, volunteer.Name)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetRefForUpdate(ctx, tx, kind, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return notFound("task"), nil
		}
		return Result{}, err
	}

	if task.Status.IsTerminal() {
		return Result{}, fmt.Errorf("%w: %s %s is %s", domain.ErrInvalidTransition, kind, taskID, task.Status)
	}

	existing, err := s.assignmentRepo.FindActive(ctx, tx, volunteerID, kind, taskID)
	switch {
	case err == nil:
		return Result{Outcome: OutcomeAlreadyAssigned, Assignment: existing, Task: task}, nil
	case !errors.Is(err, domain.ErrAssignmentNotFound):
		return Result{}, fmt.Errorf("find active assignment: %w", err)
	}

	assignment, err := s.assignmentRepo.Create(ctx, tx, &domain.Assignment{
		VolunteerID:   volunteerID,
		VolunteerName: volunteer.Name,
		RequestID:     taskID,
		Kind:          kind,
		Status:        domain.AssignmentStatusAssigned,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyAssigned) {
			return Result{Outcome: OutcomeAlreadyAssigned, Task: task}, nil
		}
		return Result{}, err
	}

	if err := recordEvent(ctx, s.eventRepo, tx, assignment.ID, nil, assignment.Status, ""); err != nil {
		return Result{}, err
	}

	status, _ := lifecycle.OnAssign(task.Status)
	task, _, err = storeTask(ctx, s.taskRepo, tx, task, task.Roster().With(volunteer.Name), status)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("volunteer assigned",
		"assignment_id", assignment.ID,
		"volunteer_id", volunteerID,
		"task_id", taskID,
		"kind", kind,
		"task_status", task.Status,
	)

	s.bus.NotifyAll(assignmentCategories...)

	return Result{Outcome: OutcomeCreated, Assignment: assignment, Task: task}, nil
}

// UpdateAssignmentStatus moves a ledger row to newStatus and carries the
// change onto the task: its status is recomputed from the ledger, and on
// COMPLETED or CANCELLED the volunteer's name leaves the task's roster.
//
// Re-applying a terminal status is OutcomeUnchanged. Moving a terminal row
// anywhere else is ErrInvalidTransition.
func (s *AssignmentService) UpdateAssignmentStatus(
	ctx context.Context,
	assignmentID string,
	newStatus domain.AssignmentStatus,
	notes *string,
) (Result, error) {
	if !newStatus.IsValid() {
		return Result{}, fmt.Errorf("%w: assignment status %q", domain.ErrInvalidStatus, newStatus)
	}

	if !validID(assignmentID) {
		return notFound("assignment"), nil
	}

	// Unlocked read to learn which task to lock; rechecked under the lock below.
	peek, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, domain.ErrAssignmentNotFound) {
			return notFound("assignment"), nil
		}
		return Result{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetRefForUpdate(ctx, tx, peek.Kind, peek.RequestID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return notFound("task"), nil
		}
		return Result{}, err
	}

	current, err := s.assignmentRepo.GetByIDForUpdate(ctx, tx, assignmentID)
	if err != nil {
		if errors.Is(err, domain.ErrAssignmentNotFound) {
			return notFound("assignment"), nil
		}
		return Result{}, err
	}

	if current.Status == newStatus && (newStatus.IsTerminal() || notes == nil) {
		return Result{Outcome: OutcomeUnchanged, Assignment: current, Task: task}, nil
	}

	if err := lifecycle.CheckTransition(current.Status, newStatus); err != nil {
		return Result{}, err
	}

	written, err := s.assignmentRepo.UpdateStatus(ctx, tx, assignmentID, current.Status, newStatus, notes, s.now())
	if err != nil {
		return Result{}, err
	}

	oldStatus := current.Status
	updated := *current
	updated.Status = written.Status
	updated.Notes = written.Notes
	updated.StartedAt = written.StartedAt
	updated.CompletedAt = written.CompletedAt

	if err := recordEvent(ctx, s.eventRepo, tx, assignmentID, &oldStatus, newStatus, updated.Notes); err != nil {
		return Result{}, err
	}

	rows, err := s.assignmentRepo.ListForTask(ctx, tx, task.Kind, task.ID)
	if err != nil {
		return Result{}, fmt.Errorf("list task assignments: %w", err)
	}
	activeStatuses, activeNames := activeOf(rows)

	taskStatus, err := lifecycle.Settle(task.Kind, activeStatuses, newStatus)
	if err != nil {
		return Result{}, err
	}

	roster := task.Roster()
	if lifecycle.ReleasesVolunteer(newStatus) && !activeNames[updated.VolunteerName] {
		roster = roster.Without(updated.VolunteerName)
	}

	task, _, err = storeTask(ctx, s.taskRepo, tx, task, roster, taskStatus)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("assignment status changed",
		"assignment_id", assignmentID,
		"volunteer_id", updated.VolunteerID,
		"task_id", task.ID,
		"kind", task.Kind,
		"old_status", oldStatus,
		"new_status", newStatus,
		"task_status", task.Status,
	)

	s.bus.NotifyAll(assignmentCategories...)

	return Result{Outcome: OutcomeUpdated, Assignment: &updated, Task: task}, nil
}

// FreeVolunteer removes one volunteer name from a task's roster by exact
// match. The other names keep their order, and an emptied roster becomes NULL.
// The ledger is not touched.
func (s *AssignmentService) FreeVolunteer(
	ctx context.Context,
	taskID string,
	kind domain.TaskKind,
	volunteerName string,
) (Result, error) {
	if err := checkKind(kind); err != nil {
		return Result{}, err
	}
	if !validID(taskID) {
		return notFound("task"), nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetRefForUpdate(ctx, tx, kind, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return notFound("task"), nil
		}
		return Result{}, err
	}

	if !task.Roster().Contains(volunteerName) {
		return Result{Outcome: OutcomeUnchanged, Task: task}, nil
	}

	task, _, err = storeTask(ctx, s.taskRepo, tx, task, task.Roster().Without(volunteerName), task.Status)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("volunteer freed from task",
		"task_id", taskID,
		"kind", kind,
		"volunteer_name", volunteerName,
	)

	s.bus.NotifyAll(assignmentCategories...)

	return Result{Outcome: OutcomeUpdated, Task: task}, nil
}

// cancelActive cancels every active row of a locked task and clears its roster.
func (s *AssignmentService) cancelActive(
	ctx context.Context,
	tx pgx.Tx,
	task *domain.TaskRef,
	status domain.TaskStatus,
	notes string,
) (*domain.TaskRef, int, bool, error) {
	rows, err := s.assignmentRepo.ListForTask(ctx, tx, task.Kind, task.ID)
	if err != nil {
		return nil, 0, false, fmt.Errorf("list task assignments: %w", err)
	}

	cancelled := 0
	for _, row := range rows {
		if !row.Status.IsActive() {
			continue
		}
		if _, err := s.assignmentRepo.UpdateStatus(ctx, tx, row.ID, row.Status, domain.AssignmentStatusCancelled, nil, s.now()); err != nil {
			return nil, 0, false, err
		}
		oldStatus := row.Status
		if err := recordEvent(ctx, s.eventRepo, tx, row.ID, &oldStatus, domain.AssignmentStatusCancelled, notes); err != nil {
			return nil, 0, false, err
		}
		cancelled++
	}

	updated, wrote, err := storeTask(ctx, s.taskRepo, tx, task, nil, status)
	if err != nil {
		return nil, 0, false, err
	}

	return updated, cancelled, wrote || cancelled > 0, nil
}

// CancelTaskAssignments cancels every non-terminal ledger row of a task and
// clears the task's roster. The task's own status is left to the caller.
func (s *AssignmentService) CancelTaskAssignments(ctx context.Context, taskID string, kind domain.TaskKind) (Result, error) {
	return s.cancel(ctx, taskID, kind, false)
}

// CancelTask cancels the task itself: its assignments first, then its status.
// Cancelling a task that already reached a terminal status is OutcomeUnchanged.
func (s *AssignmentService) CancelTask(ctx context.Context, taskID string, kind domain.TaskKind) (Result, error) {
	return s.cancel(ctx, taskID, kind, true)
}

func (s *AssignmentService) cancel(ctx context.Context, taskID string, kind domain.TaskKind, cancelTask bool) (Result, error) {
	if err := checkKind(kind); err != nil {
		return Result{}, err
	}
	if !validID(taskID) {
		return notFound("task"), nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetRefForUpdate(ctx, tx, kind, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return notFound("task"), nil
		}
		return Result{}, err
	}

	status := task.Status
	notes := "assignments cancelled"
	if cancelTask {
		if task.Status.IsTerminal() {
			return Result{Outcome: OutcomeUnchanged, Task: task}, nil
		}
		status = domain.TaskStatusCancelled
		notes = "task cancelled"
	}

	task, cancelled, changed, err := s.cancelActive(ctx, tx, task, status, notes)
	if err != nil {
		return Result{}, err
	}
	if !changed {
		return Result{Outcome: OutcomeUnchanged, Task: task}, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task assignments cancelled",
		"task_id", taskID,
		"kind", kind,
		"cancelled", cancelled,
		"task_status", task.Status,
	)

	s.bus.NotifyAll(assignmentCategories...)

	return Result{Outcome: OutcomeUpdated, Task: task, Cancelled: cancelled}, nil
}

// GetAssignment retrieves a ledger row with its history.
func (s *AssignmentService) GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, []*domain.AssignmentEvent, error) {
	if !validID(assignmentID) {
		return nil, nil, domain.ErrAssignmentNotFound
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, nil, err
	}

	events, err := s.eventRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("get assignment history: %w", err)
	}

	return assignment, events, nil
}

// ListTaskAssignments returns the full ledger of a task in insertion order.
func (s *AssignmentService) ListTaskAssignments(ctx context.Context, kind domain.TaskKind, taskID string) ([]*domain.Assignment, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListForTask(ctx, s.pool, kind, taskID)
}

// ListVolunteerAssignments returns every assignment a volunteer ever held, newest first.
func (s *AssignmentService) ListVolunteerAssignments(ctx context.Context, volunteerID string) ([]*domain.Assignment, error) {
	return s.assignmentRepo.ListForVolunteer(ctx, volunteerID)
}

// activeOf extracts the statuses and volunteer names of active rows.
func activeOf(rows []*domain.Assignment) ([]domain.AssignmentStatus, map[string]bool) {
	var statuses []domain.AssignmentStatus
	names := make(map[string]bool)
	for _, row := range rows {
		if row.Status.IsActive() {
			statuses = append(statuses, row.Status)
			names[row.VolunteerName] = true
		}
	}
	return statuses, names
}
