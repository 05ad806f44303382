package notifications

import "time"

type Type string

const (
	TypeMedication Type = "medication"
	TypeVisit      Type = "visit"
	TypeTask       Type = "task"
	TypeUpdate     Type = "update"
	TypeDocument   Type = "document"
)

type Notification struct {
	ID          string
	UserID      string // destinatario
	RecipientID string

	Type    Type
	Title   string
	Message string

	CreatedAt time.Time
	ReadAt    *time.Time
}

func (n Notification) IsRead() bool { return n.ReadAt != nil }
