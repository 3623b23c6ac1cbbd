package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidKind       = errors.New("invalid task kind")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidInput      = errors.New("invalid input")

	// Assignment errors
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrAlreadyAssigned    = errors.New("volunteer already assigned to task")

	// Directory errors
	ErrUserNotFound = errors.New("user not found")
	ErrNotVolunteer = errors.New("user is not a volunteer")

	// Messaging errors
	ErrEmptyContent = errors.New("message content is required")

	// Sync errors
	ErrPeerUnavailable = errors.New("sync peer unavailable")
	ErrPeerRejected    = errors.New("sync peer rejected request")
	ErrInvalidToken    = errors.New("invalid authentication token")

	// Notification errors
	ErrUnknownCategory = errors.New("unknown notification category")
)
