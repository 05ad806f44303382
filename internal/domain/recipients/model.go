package recipients

import "time"

// Recipient es la persona cuidada por un care circle.
type Recipient struct {
	ID          string
	OwnerUserID string

	Name      string
	BirthDate *time.Time

	// IANA (p.ej. "Africa/Johannesburg"). Se usa para expandir horarios de medicación.
	Timezone string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location devuelve la zona horaria del recipient (UTC si es inválida).
func (r Recipient) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
