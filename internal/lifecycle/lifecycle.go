// Package lifecycle maps volunteer assignment statuses onto task statuses.
// Every function here is pure: the same inputs always give the same result.
package lifecycle

import (
	"fmt"

	"github.com/mtlprog/reliefsync/internal/domain"
)

// table is the complete ledger-to-task mapping, one column per task kind.
var table = map[domain.TaskKind]map[domain.AssignmentStatus]domain.TaskStatus{
	domain.TaskKindEmergency: {
		domain.AssignmentStatusAssigned:   domain.TaskStatusAssigned,
		domain.AssignmentStatusAccepted:   domain.TaskStatusAssigned,
		domain.AssignmentStatusInProgress: domain.TaskStatusInProgress,
		domain.AssignmentStatusCompleted:  domain.TaskStatusCompleted,
		domain.AssignmentStatusCancelled:  domain.TaskStatusPending,
	},
	domain.TaskKindSOS: {
		domain.AssignmentStatusAssigned:   domain.TaskStatusAssigned,
		domain.AssignmentStatusAccepted:   domain.TaskStatusAssigned,
		domain.AssignmentStatusInProgress: domain.TaskStatusResponded,
		domain.AssignmentStatusCompleted:  domain.TaskStatusResolved,
		domain.AssignmentStatusCancelled:  domain.TaskStatusCancelled,
	},
}

// TaskStatusFor returns the task status that an assignment status drives for kind.
func TaskStatusFor(kind domain.TaskKind, status domain.AssignmentStatus) (domain.TaskStatus, error) {
	column, ok := table[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	mapped, ok := column[status]
	if !ok {
		return "", fmt.Errorf("%w: assignment status %q", domain.ErrInvalidStatus, status)
	}
	return mapped, nil
}

// EmergencyStatusFor is TaskStatusFor for emergency requests.
func EmergencyStatusFor(status domain.AssignmentStatus) (domain.TaskStatus, error) {
	return TaskStatusFor(domain.TaskKindEmergency, status)
}

// SOSStatusFor is TaskStatusFor for SOS alerts.
func SOSStatusFor(status domain.AssignmentStatus) (domain.TaskStatus, error) {
	return TaskStatusFor(domain.TaskKindSOS, status)
}

// rank orders active statuses by how far the work has progressed.
func rank(status domain.AssignmentStatus) int {
	switch status {
	case domain.AssignmentStatusAssigned:
		return 1
	case domain.AssignmentStatusAccepted:
		return 2
	case domain.AssignmentStatusInProgress:
		return 3
	default:
		return 0
	}
}

// MostAdvanced returns the most progressed active status in statuses.
// The second result is false if none of them is active.
func MostAdvanced(statuses []domain.AssignmentStatus) (domain.AssignmentStatus, bool) {
	var best domain.AssignmentStatus
	for _, s := range statuses {
		if rank(s) > rank(best) {
			best = s
		}
	}
	return best, best != ""
}

// Settle computes a task's status after a ledger change.
//
// While any volunteer is still active the task follows the most advanced
// active row, so one volunteer finishing does not close a task others are
// still working. Once nobody is active, the status that was just applied
// decides, which is how an explicit completion or cancellation reaches the task.
func Settle(kind domain.TaskKind, active []domain.AssignmentStatus, applied domain.AssignmentStatus) (domain.TaskStatus, error) {
	if best, ok := MostAdvanced(active); ok {
		return TaskStatusFor(kind, best)
	}
	return TaskStatusFor(kind, applied)
}

// OnAssign returns the status a task moves to when a volunteer is added.
// Only open tasks move; anything further along keeps its status.
func OnAssign(current domain.TaskStatus) (domain.TaskStatus, bool) {
	if current.IsOpen() {
		return domain.TaskStatusAssigned, true
	}
	return current, false
}

// ReleasesVolunteer reports whether reaching status frees the volunteer from the task.
func ReleasesVolunteer(status domain.AssignmentStatus) bool {
	return status == domain.AssignmentStatusCompleted || status == domain.AssignmentStatusCancelled
}

// CheckTransition validates a ledger row moving from one status to another.
// Terminal rows may only be re-set to the status they already hold.
func CheckTransition(from, to domain.AssignmentStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: assignment status %q", domain.ErrInvalidStatus, to)
	}
	if from.IsTerminal() && from != to {
		return fmt.Errorf("%w: assignment is %s, cannot move to %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// OpenStatus is the status a task of kind waits in when nobody is assigned.
func OpenStatus(kind domain.TaskKind) domain.TaskStatus {
	if kind == domain.TaskKindSOS {
		return domain.TaskStatusActive
	}
	return domain.TaskStatusPending
}

// Expected returns the status a task should hold given its active ledger rows.
// Terminal tasks keep their status. A task nobody is working on falls back to
// its open status.
func Expected(kind domain.TaskKind, current domain.TaskStatus, active []domain.AssignmentStatus) (domain.TaskStatus, error) {
	if current.IsTerminal() {
		return current, nil
	}
	if best, ok := MostAdvanced(active); ok {
		return TaskStatusFor(kind, best)
	}
	if current.IsOpen() {
		return current, nil
	}
	return OpenStatus(kind), nil
}
