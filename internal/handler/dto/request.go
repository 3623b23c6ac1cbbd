package dto

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a decoded request body against its struct tags.
func Validate(req any) error {
	return validate.Struct(req)
}

// CreateEmergencyRequest represents the request body for POST /emergencies.
type CreateEmergencyRequest struct {
	Type        string  `json:"type" validate:"required"`
	Priority    string  `json:"priority,omitempty"`
	Location    string  `json:"location" validate:"required"`
	Description string  `json:"description,omitempty"`
	PeopleCount int     `json:"people_count,omitempty" validate:"gte=0"`
	ReporterID  *string `json:"reporter_id,omitempty"`
}

// CreateSOSAlertRequest represents the request body for POST /sos.
type CreateSOSAlertRequest struct {
	SenderID   *string `json:"sender_id,omitempty"`
	SenderType string  `json:"sender_type,omitempty"`
	Location   string  `json:"location" validate:"required"`
	Urgency    string  `json:"urgency,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// AssignRequest represents the request body for POST /assignments.
type AssignRequest struct {
	VolunteerID string `json:"volunteer_id" validate:"required"`
	TaskID      string `json:"task_id" validate:"required"`
	Kind        string `json:"kind" validate:"required"`
}

// UpdateAssignmentStatusRequest represents the request body for PATCH /assignments/:id/status.
type UpdateAssignmentStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes,omitempty"`
}

// FreeVolunteerRequest represents the request body for POST /tasks/:kind/:id/free.
type FreeVolunteerRequest struct {
	VolunteerName string `json:"volunteer_name" validate:"required"`
}

// RegisterUserRequest represents the request body for POST /users.
type RegisterUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Skills   string `json:"skills,omitempty"`
	Role     string `json:"role" validate:"required"`
	Status   string `json:"status,omitempty"`
}

// SendMessageRequest represents the request body for POST /messages.
type SendMessageRequest struct {
	SenderID  string `json:"sender_id" validate:"required"`
	ChannelID string `json:"channel_id,omitempty"`
	Content   string `json:"content"`
}

// StatsFilters represents query parameters for GET /stats.
type StatsFilters struct {
	Period      string  // day, week, month, all
	VolunteerID *string // Filter by specific volunteer
}
