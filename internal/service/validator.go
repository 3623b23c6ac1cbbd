package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mtlprog/reliefsync/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("rostername", func(fl validator.FieldLevel) bool {
		return domain.ValidRosterName(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register rostername validation: %v", err))
	}
	return v
}

// CreateEmergencyParams holds the input for creating an emergency request.
type CreateEmergencyParams struct {
	Type        string          `validate:"required,max=100"`
	Priority    domain.Priority `validate:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW"`
	Location    string          `validate:"required,max=500"`
	Description string          `validate:"max=5000"`
	PeopleCount int             `validate:"gte=0"`
	ReporterID  *string         `validate:"omitempty,uuid"`
}

// CreateSOSAlertParams holds the input for raising an SOS alert.
type CreateSOSAlertParams struct {
	SenderID   *string `validate:"omitempty,uuid"`
	SenderType string  `validate:"max=50"`
	Location   string  `validate:"required,max=500"`
	Urgency    string  `validate:"max=50"`
	Message    string  `validate:"max=5000"`
}

// validateParams runs struct validation and wraps failures as domain validation errors.
func validateParams(params any, sentinel error) error {
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return nil
}

// checkKind rejects task kinds outside the closed set.
func checkKind(kind domain.TaskKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	return nil
}

// validID reports whether id can name a row. Every table is keyed by UUID,
// so anything else cannot exist.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
