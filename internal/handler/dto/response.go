package dto

import (
	"time"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/repository"
	"github.com/mtlprog/reliefsync/internal/service"
)

// EmergencyResponse represents an emergency request.
type EmergencyResponse struct {
	ID                 string    `json:"id"`
	Type               string    `json:"type"`
	Priority           string    `json:"priority"`
	Location           string    `json:"location"`
	Description        string    `json:"description"`
	PeopleCount        int       `json:"people_count"`
	ReporterID         *string   `json:"reporter_id"`
	Status             string    `json:"status"`
	AssignedVolunteers []string  `json:"assigned_volunteers"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SOSAlertResponse represents an SOS alert.
type SOSAlertResponse struct {
	ID                 string    `json:"id"`
	SenderID           *string   `json:"sender_id"`
	SenderType         string    `json:"sender_type"`
	Location           string    `json:"location"`
	Urgency            string    `json:"urgency"`
	Message            string    `json:"message"`
	Status             string    `json:"status"`
	AssignedVolunteers []string  `json:"assigned_volunteers"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TaskResponse is the assignment view shared by both task kinds.
type TaskResponse struct {
	ID                 string    `json:"id"`
	Kind               string    `json:"kind"`
	Status             string    `json:"status"`
	AssignedVolunteers []string  `json:"assigned_volunteers"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TaskDetailResponse represents a task with its ledger rows.
type TaskDetailResponse struct {
	Task        TaskResponse         `json:"task"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// AssignmentResponse represents one ledger row.
type AssignmentResponse struct {
	ID            string     `json:"id"`
	VolunteerID   string     `json:"volunteer_id"`
	VolunteerName string     `json:"volunteer_name"`
	TaskID        string     `json:"task_id"`
	Kind          string     `json:"kind"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	AssignedAt    time.Time  `json:"assigned_at"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// AssignmentsResponse represents a list of ledger rows.
type AssignmentsResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// AssignmentEventInfo represents one audit entry of a ledger row.
type AssignmentEventInfo struct {
	ID        string    `json:"id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignmentDetailResponse represents a ledger row with its history.
type AssignmentDetailResponse struct {
	Assignment AssignmentResponse    `json:"assignment"`
	Events     []AssignmentEventInfo `json:"events"`
}

// OperationResponse is returned by every assignment operation.
type OperationResponse struct {
	Outcome    string              `json:"outcome"`
	Assignment *AssignmentResponse `json:"assignment,omitempty"`
	Task       *TaskResponse       `json:"task,omitempty"`
	Cancelled  int                 `json:"cancelled,omitempty"`
	Missing    string              `json:"missing,omitempty"`
}

// UserResponse represents a directory entry.
type UserResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Location   string     `json:"location"`
	Skills     string     `json:"skills"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	LastSeenAt *time.Time `json:"last_seen_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// VolunteersResponse represents the response for GET /volunteers.
type VolunteersResponse struct {
	Volunteers []UserResponse `json:"volunteers"`
}

// UnresolvedNameInfo is a volunteer name the reconciler could not place.
type UnresolvedNameInfo struct {
	Kind   string `json:"kind"`
	TaskID string `json:"task_id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ReconcileResponse represents the report of one reconciliation sweep.
type ReconcileResponse struct {
	TasksScanned      int                  `json:"tasks_scanned"`
	RowsHealed        int                  `json:"rows_healed"`
	FieldsRewritten   int                  `json:"fields_rewritten"`
	StatusesRewritten int                  `json:"statuses_rewritten"`
	Failed            int                  `json:"failed"`
	Unresolved        []UnresolvedNameInfo `json:"unresolved"`
}

// MessageResponse represents a chat message.
type MessageResponse struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"sender_id"`
	ChannelID  string     `json:"channel_id"`
	Content    string     `json:"content"`
	SentAt     time.Time  `json:"sent_at"`
	Origin     string     `json:"origin"`
	PushedAt   *time.Time `json:"pushed_at"`
	ReceivedAt time.Time  `json:"received_at"`
}

// MessagesResponse represents one page of chat messages.
type MessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
	Cursor   int64             `json:"cursor"`
	More     bool              `json:"more"`
}

// AcceptMessageResponse is returned to a peer pushing a message.
type AcceptMessageResponse struct {
	Inserted bool `json:"inserted"`
}

// StatsResponse represents the response for GET /stats.
type StatsResponse struct {
	Period      string           `json:"period"`
	PeriodStart time.Time        `json:"period_start"`
	PeriodEnd   time.Time        `json:"period_end"`
	Tasks       []KindStats      `json:"tasks"`
	Volunteers  []VolunteerStats `json:"volunteers"`
}

// KindStats represents task statistics for one task kind.
type KindStats struct {
	Kind           string         `json:"kind"`
	TotalCreated   int            `json:"total_created"`
	TasksByStatus  map[string]int `json:"tasks_by_status"`
	Unassigned     int            `json:"unassigned"`
	CompletionRate float64        `json:"completion_rate"`
}

// VolunteerStats represents ledger statistics for one volunteer.
type VolunteerStats struct {
	VolunteerID          string `json:"volunteer_id"`
	VolunteerName        string `json:"volunteer_name"`
	AssignmentsCompleted int    `json:"assignments_completed"`
	AssignmentsCancelled int    `json:"assignments_cancelled"`
	AssignmentsActive    int    `json:"assignments_active"`
}

// rosterNames renders a denormalized field as a JSON array, never null.
func rosterNames(field *string) []string {
	names := []string(domain.ParseRoster(field))
	if names == nil {
		return []string{}
	}
	return names
}

// ToEmergencyResponse converts a domain emergency to its response.
func ToEmergencyResponse(e *domain.Emergency) EmergencyResponse {
	return EmergencyResponse{
		ID:                 e.ID,
		Type:               e.Type,
		Priority:           string(e.Priority),
		Location:           e.Location,
		Description:        e.Description,
		PeopleCount:        e.PeopleCount,
		ReporterID:         e.ReporterID,
		Status:             string(e.Status),
		AssignedVolunteers: rosterNames(e.AssignedVolunteers),
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// ToSOSAlertResponse converts a domain SOS alert to its response.
func ToSOSAlertResponse(a *domain.SOSAlert) SOSAlertResponse {
	return SOSAlertResponse{
		ID:                 a.ID,
		SenderID:           a.SenderID,
		SenderType:         a.SenderType,
		Location:           a.Location,
		Urgency:            a.Urgency,
		Message:            a.Message,
		Status:             string(a.Status),
		AssignedVolunteers: rosterNames(a.AssignedVolunteers),
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// ToTaskResponse converts a task reference to its response.
func ToTaskResponse(t *domain.TaskRef) TaskResponse {
	return TaskResponse{
		ID:                 t.ID,
		Kind:               string(t.Kind),
		Status:             string(t.Status),
		AssignedVolunteers: rosterNames(t.AssignedVolunteers),
		UpdatedAt:          t.UpdatedAt,
	}
}

// ToAssignmentResponse converts a ledger row to its response.
func ToAssignmentResponse(a *domain.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:            a.ID,
		VolunteerID:   a.VolunteerID,
		VolunteerName: a.VolunteerName,
		TaskID:        a.RequestID,
		Kind:          string(a.Kind),
		Status:        string(a.Status),
		Notes:         a.Notes,
		AssignedAt:    a.AssignedAt,
		StartedAt:     a.StartedAt,
		CompletedAt:   a.CompletedAt,
	}
}

// ToAssignmentsResponse converts ledger rows to a list response.
func ToAssignmentsResponse(rows []*domain.Assignment) AssignmentsResponse {
	out := AssignmentsResponse{Assignments: make([]AssignmentResponse, len(rows))}
	for i, a := range rows {
		out.Assignments[i] = ToAssignmentResponse(a)
	}
	return out
}

// ToAssignmentEventInfo converts an audit entry to its response.
func ToAssignmentEventInfo(e *domain.AssignmentEvent) AssignmentEventInfo {
	var oldStatus *string
	if e.OldStatus != nil {
		s := string(*e.OldStatus)
		oldStatus = &s
	}
	return AssignmentEventInfo{
		ID:        e.ID,
		OldStatus: oldStatus,
		NewStatus: string(e.NewStatus),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

// ToOperationResponse converts an operation result to its response.
func ToOperationResponse(res service.Result) OperationResponse {
	out := OperationResponse{
		Outcome:   string(res.Outcome),
		Cancelled: res.Cancelled,
		Missing:   res.Missing,
	}
	if res.Assignment != nil {
		a := ToAssignmentResponse(res.Assignment)
		out.Assignment = &a
	}
	if res.Task != nil {
		t := ToTaskResponse(res.Task)
		out.Task = &t
	}
	return out
}

// ToUserResponse converts a directory entry to its response.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Location:   u.Location,
		Skills:     u.Skills,
		Role:       string(u.Role),
		Status:     u.Status,
		LastSeenAt: u.LastSeenAt,
		CreatedAt:  u.CreatedAt,
	}
}

// ToReconcileResponse converts a sweep report to its response.
func ToReconcileResponse(r *service.ReconcileReport) ReconcileResponse {
	out := ReconcileResponse{
		TasksScanned:      r.TasksScanned,
		RowsHealed:        r.RowsHealed,
		FieldsRewritten:   r.FieldsRewritten,
		StatusesRewritten: r.StatusesRewritten,
		Failed:            r.Failed,
		Unresolved:        make([]UnresolvedNameInfo, len(r.Unresolved)),
	}
	for i, u := range r.Unresolved {
		out.Unresolved[i] = UnresolvedNameInfo{
			Kind:   string(u.Kind),
			TaskID: u.TaskID,
			Name:   u.Name,
			Reason: u.Reason,
		}
	}
	return out
}

// ToMessageResponse converts a chat message to its response.
func ToMessageResponse(m *domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ChannelID:  m.ChannelID,
		Content:    m.Content,
		SentAt:     m.SentAt,
		Origin:     string(m.Origin),
		PushedAt:   m.PushedAt,
		ReceivedAt: m.ReceivedAt,
	}
}

// ToKindStats converts a per-kind stats result to its response.
func ToKindStats(r *repository.KindStatsResult) KindStats {
	total := 0
	for _, count := range r.TasksByStatus {
		total += count
	}
	done := r.TasksByStatus[string(domain.TaskStatusCompleted)] + r.TasksByStatus[string(domain.TaskStatusResolved)]
	rate := 0.0
	if total > 0 {
		rate = float64(done) / float64(total) * 100
	}
	return KindStats{
		Kind:           string(r.Kind),
		TotalCreated:   r.TotalCreated,
		TasksByStatus:  r.TasksByStatus,
		Unassigned:     r.Unassigned,
		CompletionRate: rate,
	}
}
