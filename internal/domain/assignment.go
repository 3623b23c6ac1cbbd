package domain

import "time"

// AssignmentStatus is the status of a volunteer assignment ledger row.
type AssignmentStatus string

const (
	AssignmentStatusAssigned   AssignmentStatus = "ASSIGNED"
	AssignmentStatusAccepted   AssignmentStatus = "ACCEPTED"
	AssignmentStatusInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentStatusCompleted  AssignmentStatus = "COMPLETED"
	AssignmentStatusCancelled  AssignmentStatus = "CANCELLED"
)

// ActiveAssignmentStatuses are the statuses that count a volunteer as assigned.
var ActiveAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusAssigned,
	AssignmentStatusAccepted,
	AssignmentStatusInProgress,
}

// IsValid checks if the status is one of the allowed values.
func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusAssigned, AssignmentStatusAccepted, AssignmentStatusInProgress,
		AssignmentStatusCompleted, AssignmentStatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive returns true if the row still holds the volunteer on the task.
func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentStatusAssigned || s == AssignmentStatusAccepted || s == AssignmentStatusInProgress
}

// IsTerminal returns true if the row can no longer change.
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentStatusCompleted || s == AssignmentStatusCancelled
}

// Assignment is one row of the volunteer assignment ledger.
// Rows are never deleted; cancellation is a status transition.
type Assignment struct {
	ID            string
	VolunteerID   string
	VolunteerName string // joined from users, not stored on the row
	RequestID     string
	Kind          TaskKind
	Status        AssignmentStatus
	Notes         string
	AssignedAt    time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
}
