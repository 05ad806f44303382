package tasks

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Filter son los botones de la lista de tareas.
type Filter string

const (
	FilterAll          Filter = "all"
	FilterPending      Filter = "pending"
	FilterCompleted    Filter = "completed"
	FilterMine         Filter = "mine"
	FilterHighPriority Filter = "high-priority"
)

// Person identifica a alguien del circle (id + nombre visible).
type Person struct {
	UserID string
	Name   string
}

type Task struct {
	ID          string
	RecipientID string

	Title       string
	Description string
	DueAt       time.Time

	AssignedTo Person
	AssignedBy Person

	Priority Priority
	Status   Status

	CreatedAt   time.Time
	CompletedAt *time.Time
	CompletedBy *Person
}

// Overdue: pendiente y con vencimiento anterior a now.
func (t Task) Overdue(now time.Time) bool {
	return t.Status == StatusPending && t.DueAt.Before(now)
}

// Matches aplica el predicado de un filtro para el usuario que mira.
func (t Task) Matches(f Filter, viewerID string) bool {
	switch f {
	case FilterAll, "":
		return true
	case FilterPending:
		return t.Status == StatusPending
	case FilterCompleted:
		return t.Status == StatusCompleted
	case FilterMine:
		return t.Status == StatusPending && t.AssignedTo.UserID == viewerID
	case FilterHighPriority:
		return t.Status == StatusPending && t.Priority == PriorityHigh
	default:
		return false
	}
}
