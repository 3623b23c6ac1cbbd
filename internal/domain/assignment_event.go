package domain

import "time"

// AssignmentEvent is an audit log entry for a ledger status change.
type AssignmentEvent struct {
	ID           string
	AssignmentID string
	OldStatus    *AssignmentStatus // nil for the creating event
	NewStatus    AssignmentStatus
	Notes        string
	CreatedAt    time.Time
}

// IsCreation returns true if the event recorded the row being inserted.
func (e *AssignmentEvent) IsCreation() bool {
	return e.OldStatus == nil
}
