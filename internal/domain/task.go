package domain

import "time"

// TaskKind identifies which table a task lives in and which status vocabulary it uses.
type TaskKind string

const (
	TaskKindEmergency TaskKind = "EMERGENCY"
	TaskKindSOS       TaskKind = "SOS"
)

// IsValid checks if the kind is one of the allowed values.
func (k TaskKind) IsValid() bool {
	switch k {
	case TaskKindEmergency, TaskKindSOS:
		return true
	default:
		return false
	}
}

// TaskKinds lists every task kind in a stable order.
func TaskKinds() []TaskKind {
	return []TaskKind{TaskKindEmergency, TaskKindSOS}
}

// TaskStatus is the persisted status of an emergency or SOS alert.
// Emergency tasks use PENDING, ASSIGNED, IN_PROGRESS, COMPLETED, CANCELLED.
// SOS alerts use PENDING, ACTIVE, ASSIGNED, RESPONDED, RESOLVED, CANCELLED.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusActive     TaskStatus = "ACTIVE"
	TaskStatusAssigned   TaskStatus = "ASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusResponded  TaskStatus = "RESPONDED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusResolved   TaskStatus = "RESOLVED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusResolved || s == TaskStatusCancelled
}

// IsOpen returns true if the task still waits for a volunteer.
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusPending || s == TaskStatusActive
}

// Allows reports whether status belongs to the vocabulary of kind.
func (k TaskKind) Allows(s TaskStatus) bool {
	switch k {
	case TaskKindEmergency:
		switch s {
		case TaskStatusPending, TaskStatusAssigned, TaskStatusInProgress,
			TaskStatusCompleted, TaskStatusCancelled:
			return true
		}
	case TaskKindSOS:
		switch s {
		case TaskStatusPending, TaskStatusActive, TaskStatusAssigned,
			TaskStatusResponded, TaskStatusResolved, TaskStatusCancelled:
			return true
		}
	}
	return false
}

// Priority is the triage level of an emergency request.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// IsValid checks if the priority is one of the allowed values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// TaskRef is the part of a task record shared by both kinds: identity,
// status and the denormalized list of assigned volunteer names.
type TaskRef struct {
	ID                 string
	Kind               TaskKind
	Status             TaskStatus
	AssignedVolunteers *string
	UpdatedAt          time.Time
}

// Roster parses the denormalized assigned-volunteers field.
func (t *TaskRef) Roster() Roster {
	return ParseRoster(t.AssignedVolunteers)
}

// Emergency is a relief request raised by a survivor or an authority.
type Emergency struct {
	ID                 string
	Type               string
	Priority           Priority
	Location           string
	Description        string
	PeopleCount        int
	ReporterID         *string
	Status             TaskStatus
	AssignedVolunteers *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SOSAlert is a distress signal sent from a device.
type SOSAlert struct {
	ID                 string
	SenderID           *string
	SenderType         string
	Location           string
	Urgency            string
	Message            string
	Status             TaskStatus
	AssignedVolunteers *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
