package notify

import (
	"fmt"

	"github.com/mtlprog/reliefsync/internal/domain"
)

// Category names a kind of data that changed. Listeners re-query on notify.
type Category string

const (
	CategoryResource      Category = "ResourceDataChanged"
	CategoryEmergency     Category = "EmergencyDataChanged"
	CategoryUser          Category = "UserDataChanged"
	CategoryDashboard     Category = "DashboardDataChanged"
	CategoryVolunteer     Category = "VolunteerDataChanged"
	CategoryCommunication Category = "CommunicationDataChanged"
	CategorySettings      Category = "SettingsDataChanged"
)

// Categories returns the closed set of categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryResource,
		CategoryEmergency,
		CategoryUser,
		CategoryDashboard,
		CategoryVolunteer,
		CategoryCommunication,
		CategorySettings,
	}
}

// IsValid checks if the category is one of the allowed values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryResource, CategoryEmergency, CategoryUser, CategoryDashboard,
		CategoryVolunteer, CategoryCommunication, CategorySettings:
		return true
	default:
		return false
	}
}

// ParseCategory validates a category received from outside the process.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, s)
	}
	return c, nil
}
