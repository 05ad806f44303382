package activity

import "time"

type Type string

const (
	TypeUpdate     Type = "update"
	TypeMedication Type = "medication"
	TypeTask       Type = "task"
	TypeDocument   Type = "document"
	TypeVisit      Type = "visit"
)

// Entry es una acción hecha por un usuario sobre un recipient.
// Alimenta "Recent Activity" del perfil y las notificaciones.
type Entry struct {
	ID          string
	UserID      string
	ActorName   string
	RecipientID string

	Type        Type
	Description string

	OccurredAt time.Time
}
