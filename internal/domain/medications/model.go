package medications

import "time"

type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyTwiceDaily Frequency = "twice-daily"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyAsNeeded   Frequency = "as-needed"
	FrequencyCustom     Frequency = "custom" // RRULE (RFC 5545)
)

type Status string

const (
	StatusActive       Status = "active"
	StatusCompleted    Status = "completed"
	StatusDiscontinued Status = "discontinued"
)

type Medication struct {
	ID          string
	RecipientID string

	Name   string
	Dosage string // "10mg", "1000 IU"

	Frequency Frequency
	Times     []string // "HH:MM" en la zona del recipient
	RRule     string   // solo FrequencyCustom

	Instructions string

	// Fechas calendario (00:00 UTC). EndDate nil = sin fin.
	StartDate time.Time
	EndDate   *time.Time

	Status    Status
	CreatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Scheduled indica si la medicación genera tomas con horario.
func (m Medication) Scheduled() bool {
	return m.Status == StatusActive && m.Frequency != FrequencyAsNeeded
}

type Taker struct {
	UserID string
	Name   string
}

// DoseLog registra una toma ("mark as taken").
type DoseLog struct {
	ID           string
	MedicationID string
	RecipientID  string

	// copiados para que el historial no dependa de la medicación actual
	MedicationName string
	Dosage         string

	TakenAt time.Time
	TakenBy Taker
	Notes   string
}

// Dose es una toma esperada, calculada a partir del horario.
type Dose struct {
	MedicationID string
	Name         string
	Dosage       string
	Instructions string
	DueAt        time.Time
}
