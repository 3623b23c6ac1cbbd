package domain

import "time"

// UserRole is the capability a directory entry carries.
type UserRole string

const (
	UserRoleSurvivor  UserRole = "SURVIVOR"
	UserRoleVolunteer UserRole = "VOLUNTEER"
	UserRoleAuthority UserRole = "AUTHORITY"

	// UserRoleUnknown marks an entry merged from a peer that sent no role.
	// It can never be assigned to a task.
	UserRoleUnknown UserRole = "UNKNOWN"
)

// User is a directory entry shared between installations.
type User struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Location   string
	Skills     string
	Role       UserRole
	Status     string // availability for volunteers, free text otherwise
	LastSeenAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsVolunteer checks if the user can be assigned to tasks.
func (u *User) IsVolunteer() bool {
	return u.Role == UserRoleVolunteer
}
