package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mtlprog/reliefsync/internal/domain"
	"github.com/mtlprog/reliefsync/internal/notify"
	"github.com/mtlprog/reliefsync/internal/repository"
)

// RegisterUserParams holds the input for adding a directory entry.
type RegisterUserParams struct {
	Name     string          `validate:"required,max=200,rostername"`
	Email    string          `validate:"omitempty,email"`
	Phone    string          `validate:"max=50"`
	Location string          `validate:"max=500"`
	Skills   string          `validate:"max=1000"`
	Role     domain.UserRole `validate:"required,oneof=SURVIVOR VOLUNTEER AUTHORITY"`
	Status   string          `validate:"max=50"`
}

// UserService manages the local user directory.
type UserService struct {
	userRepo *repository.UserRepository
	bus      *notify.Bus
}

// NewUserService creates a new UserService. A nil bus gets a private inline bus.
func NewUserService(userRepo *repository.UserRepository, bus *notify.Bus) *UserService {
	if bus == nil {
		bus = notify.NewBus(nil)
	}
	return &UserService{userRepo: userRepo, bus: bus}
}

// RegisterUser adds a user to the directory.
func (s *UserService) RegisterUser(ctx context.Context, params RegisterUserParams) (*domain.User, error) {
	if err := validateParams(params, domain.ErrInvalidInput); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Name:     params.Name,
		Email:    params.Email,
		Phone:    params.Phone,
		Location: params.Location,
		Skills:   params.Skills,
		Role:     params.Role,
		Status:   params.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)

	categories := []notify.Category{notify.CategoryUser}
	if user.IsVolunteer() {
		categories = append(categories, notify.CategoryVolunteer)
	}
	s.bus.NotifyAll(categories...)

	return user, nil
}

// GetUser retrieves a directory entry by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrUserNotFound
	}
	return s.userRepo.GetByID(ctx, id)
}

// ListVolunteers returns every volunteer in the directory.
func (s *UserService) ListVolunteers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListVolunteers(ctx)
}
