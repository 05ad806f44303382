package profiles

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCaregiver    Role = "caregiver"
	RoleFamily       Role = "family"
	RoleProfessional Role = "professional"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCaregiver, RoleFamily, RoleProfessional:
		return true
	}
	return false
}

type NotificationPrefs struct {
	Email bool
	Push  bool
	SMS   bool
}

// Profile es el perfil del usuario autenticado (no del recipient).
type Profile struct {
	UserID string

	FirstName    string
	LastName     string
	Email        string
	Phone        string
	Role         Role
	Relationship string
	AvatarURL    string

	Notifications NotificationPrefs

	JoinedAt  time.Time
	UpdatedAt time.Time
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
