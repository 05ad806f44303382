package tasks

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"carecircle/internal/domain/activity"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("task not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo     Repository
	activity activity.Publisher
	now      func() time.Time
}

func NewService(repo Repository, pub activity.Publisher) *Service {
	if pub == nil {
		pub = activity.Nop{}
	}
	return &Service{
		repo:     repo,
		activity: pub,
		now:      time.Now,
	}
}

type CreateInput struct {
	RecipientID string
	Title       string
	Description string
	DueAt       time.Time
	AssignedTo  Person
	AssignedBy  Person
	Priority    Priority
}

// Create agrega exactamente una tarea pendiente.
func (s *Service) Create(ctx context.Context, in CreateInput) (Task, error) {
	title := strings.TrimSpace(in.Title)
	if strings.TrimSpace(in.RecipientID) == "" || title == "" || in.DueAt.IsZero() {
		return Task{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.AssignedBy.UserID) == "" {
		return Task{}, ErrInvalidInput
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !validPriority(priority) {
		return Task{}, ErrInvalidInput
	}

	assignee := in.AssignedTo
	if strings.TrimSpace(assignee.UserID) == "" {
		// sin asignar => quien la crea
		assignee = in.AssignedBy
	}
	if strings.TrimSpace(assignee.Name) == "" {
		assignee.Name = assignee.UserID
	}

	t := Task{
		ID:          uuid.NewString(),
		RecipientID: in.RecipientID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		DueAt:       in.DueAt,
		AssignedTo:  assignee,
		AssignedBy:  in.AssignedBy,
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Task{}, err
	}

	s.publish(ctx, in.AssignedBy, t, "Created task: "+t.Title)
	return t, nil
}

func (s *Service) Get(ctx context.Context, recipientID, id string) (Task, error) {
	t, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil || t.RecipientID != recipientID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

// List aplica el filtro y ordena por vencimiento ascendente.
func (s *Service) List(ctx context.Context, recipientID string, f Filter, viewerID string) ([]Task, error) {
	if !validFilter(f) {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	out := make([]Task, 0, len(items))
	for _, t := range items {
		if t.Matches(f, viewerID) {
			out = append(out, t)
		}
	}
	sortByDue(out)
	return out, nil
}

// Overdue: pendientes vencidas a la fecha now.
func (s *Service) Overdue(ctx context.Context, recipientID string, now time.Time) ([]Task, error) {
	items, err := s.List(ctx, recipientID, FilterPending, "")
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0)
	for _, t := range items {
		if t.Overdue(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Complete es idempotente. canManage=false solo permite al asignado.
func (s *Service) Complete(ctx context.Context, recipientID, id string, by Person, canManage bool) (Task, error) {
	t, err := s.Get(ctx, recipientID, id)
	if err != nil {
		return Task{}, err
	}
	if !canManage && t.AssignedTo.UserID != by.UserID {
		return Task{}, ErrForbidden
	}
	if t.Status == StatusCompleted {
		return t, nil
	}

	now := s.now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.CompletedBy = &by
	if err := s.repo.Update(ctx, t); err != nil {
		return Task{}, err
	}

	s.publish(ctx, by, t, "Completed task: "+t.Title)
	return t, nil
}

func (s *Service) Reopen(ctx context.Context, recipientID, id string) (Task, error) {
	t, err := s.Get(ctx, recipientID, id)
	if err != nil {
		return Task{}, err
	}
	if t.Status == StatusPending {
		return t, nil
	}
	t.Status = StatusPending
	t.CompletedAt = nil
	t.CompletedBy = nil
	if err := s.repo.Update(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, recipientID, id string) error {
	t, err := s.Get(ctx, recipientID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, t.ID)
}

func (s *Service) publish(ctx context.Context, by Person, t Task, desc string) {
	activity.Record(ctx, s.activity, activity.PublishInput{
		UserID:      by.UserID,
		ActorName:   by.Name,
		RecipientID: t.RecipientID,
		Type:        activity.TypeTask,
		Description: desc,
	})
}

func sortByDue(ts []Task) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].DueAt.Equal(ts[j].DueAt) {
			return ts[i].CreatedAt.Before(ts[j].CreatedAt)
		}
		return ts[i].DueAt.Before(ts[j].DueAt)
	})
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func validFilter(f Filter) bool {
	switch f {
	case "", FilterAll, FilterPending, FilterCompleted, FilterMine, FilterHighPriority:
		return true
	}
	return false
}
