package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/lifecycle"
	"github.com/mtlprog/reliefsync/internal/notify"
	"github.com/mtlprog/reliefsync/internal/repository"
)

// Reasons a name on a task's roster could not be matched to a volunteer.
const (
	UnresolvedNotFound   = "not_found"
	UnresolvedAmbiguous  = "ambiguous"
	UnresolvedTaskClosed = "task_closed"
)

// restoredNotes marks ledger rows the reconciler created from a task's roster.
const restoredNotes = "restored from assigned volunteer field"

// UnresolvedName is a roster name the reconciler could not turn into a ledger row.
type UnresolvedName struct {
	Kind   domain.TaskKind
	TaskID string
	Name   string
	Reason string
}

// ReconcileReport summarizes one reconciliation sweep.
type ReconcileReport struct {
	TasksScanned      int
	RowsHealed        int
	FieldsRewritten   int
	StatusesRewritten int
	Failed            int
	Unresolved        []UnresolvedName
}

// Mutations returns the number of writes the sweep made.
func (r *ReconcileReport) Mutations() int {
	return r.RowsHealed + r.FieldsRewritten + r.StatusesRewritten
}

// Reconciler repairs drift between the assignment ledger and the volunteer
// field on tasks. The ledger wins: names are first restored into the ledger
// where they are missing, then every field is rebuilt from the active rows.
// A second sweep over an unchanged database writes nothing.
type Reconciler struct {
	pool           *pgxpool.Pool
	taskRepo       *repository.TaskRepository
	assignmentRepo *repository.AssignmentRepository
	eventRepo      *repository.AssignmentEventRepository
	userRepo       *repository.UserRepository
	bus            *notify.Bus
}

// NewReconciler creates a new Reconciler. A nil bus gets a private inline bus.
func NewReconciler(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	assignmentRepo *repository.AssignmentRepository,
	eventRepo *repository.AssignmentEventRepository,
	userRepo *repository.UserRepository,
	bus *notify.Bus,
) *Reconciler {
	if bus == nil {
		bus = notify.NewBus(nil)
	}
	return &Reconciler{
		pool:           pool,
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		bus:            bus,
	}
}

// taskRepair counts what reconciling a single task changed.
type taskRepair struct {
	rowsHealed    int
	fieldChanged  bool
	statusChanged bool
	unresolved    []UnresolvedName
}

func (t taskRepair) mutated() bool {
	return t.rowsHealed > 0 || t.fieldChanged || t.statusChanged
}

// RunOnce sweeps every task that has a roster or an active ledger row.
// A failure on one task is logged and counted; the sweep continues.
func (r *Reconciler) RunOnce(ctx context.Context) (*ReconcileReport, error) {
	volunteers, err := r.userRepo.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load volunteers: %w", err)
	}
	index := make(map[string][]*domain.User, len(volunteers))
	for _, v := range volunteers {
		index[v.Name] = append(index[v.Name], v)
	}

	report := &ReconcileReport{}
	for _, kind := range domain.TaskKinds() {
		ids, err := r.taskRepo.ListReconcileCandidates(ctx, kind)
		if err != nil {
			return report, fmt.Errorf("list %s tasks: %w", kind, err)
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return report, err
			}

			report.TasksScanned++
			repair, err := r.reconcileTask(ctx, kind, id, index)
			if err != nil {
				report.Failed++
				slog.Error("failed to reconcile task", "task_id", id, "kind", kind, "error", err)
				continue
			}

			report.RowsHealed += repair.rowsHealed
			if repair.fieldChanged {
				report.FieldsRewritten++
			}
			if repair.statusChanged {
				report.StatusesRewritten++
			}
			report.Unresolved = append(report.Unresolved, repair.unresolved...)
		}
	}

	for _, u := range report.Unresolved {
		slog.Warn("unresolved volunteer name",
			"task_id", u.TaskID,
			"kind", u.Kind,
			"volunteer_name", u.Name,
			"reason", u.Reason,
		)
	}

	if report.Mutations() > 0 {
		r.bus.NotifyAll(assignmentCategories...)
	}

	slog.Info("reconciliation finished",
		"tasks_scanned", report.TasksScanned,
		"rows_healed", report.RowsHealed,
		"fields_rewritten", report.FieldsRewritten,
		"statuses_rewritten", report.StatusesRewritten,
		"unresolved", len(report.Unresolved),
		"failed", report.Failed,
	)

	return report, nil
}

// reconcileTask repairs one task under its row lock.
func (r *Reconciler) reconcileTask(
	ctx context.Context,
	kind domain.TaskKind,
	taskID string,
	index map[string][]*domain.User,
) (taskRepair, error) {
	var repair taskRepair

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return repair, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := r.taskRepo.GetRefForUpdate(ctx, tx, kind, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return repair, nil
		}
		return repair, err
	}

	rows, err := r.assignmentRepo.ListForTask(ctx, tx, kind, taskID)
	if err != nil {
		return repair, fmt.Errorf("list task assignments: %w", err)
	}

	// Field to ledger: every name without any row is restored as ASSIGNED.
	// A name whose rows are all terminal is stale and left for the rebuild to drop.
	roster := task.Roster()
	for _, name := range roster {
		if hasRowFor(rows, name) {
			continue
		}

		unresolved := func(reason string) {
			repair.unresolved = append(repair.unresolved, UnresolvedName{
				Kind:   kind,
				TaskID: taskID,
				Name:   name,
				Reason: reason,
			})
		}

		if task.Status.IsTerminal() {
			unresolved(UnresolvedTaskClosed)
			continue
		}

		matches := index[name]
		switch len(matches) {
		case 0:
			unresolved(UnresolvedNotFound)
			continue
		case 1:
		default:
			unresolved(UnresolvedAmbiguous)
			continue
		}

		volunteer := matches[0]
		created, err := r.assignmentRepo.Create(ctx, tx, &domain.Assignment{
			VolunteerID:   volunteer.ID,
			VolunteerName: volunteer.Name,
			RequestID:     taskID,
			Kind:          kind,
			Status:        domain.AssignmentStatusAssigned,
			Notes:         restoredNotes,
		})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyAssigned) {
				continue
			}
			return repair, err
		}
		if err := recordEvent(ctx, r.eventRepo, tx, created.ID, nil, created.Status, restoredNotes); err != nil {
			return repair, err
		}

		rows = append(rows, created)
		repair.rowsHealed++
	}

	// Ledger to field: the roster becomes exactly the active names. Names that
	// stay keep their position; names new to the roster follow in ledger order.
	active, activeNames := activeOf(rows)
	rebuilt := make(domain.Roster, 0, len(activeNames))
	for _, name := range roster {
		if activeNames[name] {
			rebuilt = rebuilt.With(name)
		}
	}
	for _, row := range rows {
		if row.Status.IsActive() {
			rebuilt = rebuilt.With(row.VolunteerName)
		}
	}

	status, err := lifecycle.Expected(kind, task.Status, active)
	if err != nil {
		return repair, err
	}

	repair.fieldChanged = !domain.SameField(rebuilt.Field(), task.AssignedVolunteers)
	repair.statusChanged = status != task.Status

	if _, _, err := storeTask(ctx, r.taskRepo, tx, task, rebuilt, status); err != nil {
		return repair, err
	}

	if !repair.mutated() {
		return repair, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return taskRepair{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task reconciled",
		"task_id", taskID,
		"kind", kind,
		"rows_healed", repair.rowsHealed,
		"field_changed", repair.fieldChanged,
		"old_status", task.Status,
		"new_status", status,
	)

	return repair, nil
}

// Run sweeps at every interval until ctx is done. Sweep errors are logged.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("reconciliation sweep failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// hasRowFor reports whether any ledger row, active or terminal, belongs to name.
func hasRowFor(rows []*domain.Assignment, name string) bool {
	for _, row := range rows {
		if row.VolunteerName == name {
			return true
		}
	}
	return false
}
