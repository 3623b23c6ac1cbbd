package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/notify"
	"github.com/mtlprog/reliefsync/internal/repository"
)

// TaskService creates and reads emergencies and SOS alerts.
// Assignment state on tasks is owned by AssignmentService.
type TaskService struct {
	taskRepo *repository.TaskRepository
	bus      *notify.Bus
}

// NewTaskService creates a new TaskService. A nil bus gets a private inline bus.
func NewTaskService(taskRepo *repository.TaskRepository, bus *notify.Bus) *TaskService {
	if bus == nil {
		bus = notify.NewBus(nil)
	}
	return &TaskService{taskRepo: taskRepo, bus: bus}
}

// CreateEmergency records a new emergency request in PENDING.
func (s *TaskService) CreateEmergency(ctx context.Context, params CreateEmergencyParams) (*domain.Emergency, error) {
	if err := validateParams(params, domain.ErrInvalidInput); err != nil {
		return nil, err
	}

	emergency, err := s.taskRepo.CreateEmergency(ctx, &domain.Emergency{
		Type:        params.Type,
		Priority:    params.Priority,
		Location:    params.Location,
		Description: params.Description,
		PeopleCount: params.PeopleCount,
		ReporterID:  params.ReporterID,
	})
	if err != nil {
		return nil, fmt.Errorf("create emergency: %w", err)
	}

	slog.Info("emergency created",
		"task_id", emergency.ID,
		"type", emergency.Type,
		"priority", emergency.Priority,
	)

	s.bus.NotifyAll(notify.CategoryEmergency, notify.CategoryDashboard)

	return emergency, nil
}

// CreateSOSAlert records a new SOS alert in ACTIVE.
func (s *TaskService) CreateSOSAlert(ctx context.Context, params CreateSOSAlertParams) (*domain.SOSAlert, error) {
	if err := validateParams(params, domain.ErrInvalidInput); err != nil {
		return nil, err
	}

	alert, err := s.taskRepo.CreateSOSAlert(ctx, &domain.SOSAlert{
		SenderID:   params.SenderID,
		SenderType: params.SenderType,
		Location:   params.Location,
		Urgency:    params.Urgency,
		Message:    params.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("create sos alert: %w", err)
	}

	slog.Info("sos alert raised",
		"task_id", alert.ID,
		"urgency", alert.Urgency,
	)

	s.bus.NotifyAll(notify.CategoryEmergency, notify.CategoryDashboard)

	return alert, nil
}

// GetEmergency retrieves an emergency request by ID.
func (s *TaskService) GetEmergency(ctx context.Context, id string) (*domain.Emergency, error) {
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}
	return s.taskRepo.GetEmergency(ctx, id)
}

// GetSOSAlert retrieves an SOS alert by ID.
func (s *TaskService) GetSOSAlert(ctx context.Context, id string) (*domain.SOSAlert, error) {
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}
	return s.taskRepo.GetSOSAlert(ctx, id)
}

// GetTask retrieves the assignment view of any task.
func (s *TaskService) GetTask(ctx context.Context, kind domain.TaskKind, id string) (*domain.TaskRef, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}
	return s.taskRepo.GetRef(ctx, kind, id)
}
