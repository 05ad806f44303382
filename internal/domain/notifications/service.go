package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"carecircle/internal/domain/activity"
	"carecircle/internal/domain/circle"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("notification not found")
	ErrForbidden    = errors.New("forbidden")
)

// AudienceLookup devuelve quiénes forman el circle de un recipient.
type AudienceLookup interface {
	Audience(ctx context.Context, recipientID string) ([]circle.Member, error)
}

type Service struct {
	repo     Repository
	audience AudienceLookup
	now      func() time.Time
}

func NewService(repo Repository, audience AudienceLookup) *Service {
	return &Service{
		repo:     repo,
		audience: audience,
		now:      time.Now,
	}
}

type NotifyInput struct {
	RecipientID   string
	ExcludeUserID string // normalmente quien hizo la acción
	Type          Type
	Title         string
	Message       string
}

// NotifyCircle crea una notificación por cada miembro del circle
// (owner + activos), salvo ExcludeUserID. Devuelve cuántas creó.
func (s *Service) NotifyCircle(ctx context.Context, in NotifyInput) (int, error) {
	if strings.TrimSpace(in.RecipientID) == "" || strings.TrimSpace(in.Title) == "" || in.Type == "" {
		return 0, ErrInvalidInput
	}

	members, err := s.audience.Audience(ctx, in.RecipientID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	sent := 0
	for _, m := range members {
		if m.UserID == "" || m.UserID == in.ExcludeUserID {
			continue
		}
		n := Notification{
			ID:          uuid.NewString(),
			UserID:      m.UserID,
			RecipientID: in.RecipientID,
			Type:        in.Type,
			Title:       strings.TrimSpace(in.Title),
			Message:     strings.TrimSpace(in.Message),
			CreatedAt:   now,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// OnActivity convierte actividad del circle en notificaciones para el resto.
func (s *Service) OnActivity(ctx context.Context, e activity.Entry) error {
	if e.RecipientID == "" {
		return nil
	}
	_, err := s.NotifyCircle(ctx, NotifyInput{
		RecipientID:   e.RecipientID,
		ExcludeUserID: e.UserID,
		Type:          Type(e.Type),
		Title:         titleFor(e.Type),
		Message:       e.ActorName + ": " + e.Description,
	})
	return err
}

func titleFor(t activity.Type) string {
	switch t {
	case activity.TypeUpdate:
		return "New Update Posted"
	case activity.TypeDocument:
		return "New Document Uploaded"
	case activity.TypeMedication:
		return "Medication Update"
	case activity.TypeTask:
		return "Task Update"
	case activity.TypeVisit:
		return "Visit Scheduled"
	default:
		return "Care Circle Activity"
	}
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	items, err := s.List(ctx, userID, true)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// MarkRead solo para el destinatario; idempotente.
func (s *Service) MarkRead(ctx context.Context, id, userID string) (Notification, error) {
	n, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Notification{}, ErrNotFound
	}
	if n.UserID != userID {
		return Notification{}, ErrForbidden
	}
	if n.ReadAt != nil {
		return n, nil
	}
	now := s.now()
	n.ReadAt = &now
	if err := s.repo.Update(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	items, err := s.List(ctx, userID, true)
	if err != nil {
		return 0, err
	}
	now := s.now()
	for i := range items {
		items[i].ReadAt = &now
		if err := s.repo.Update(ctx, items[i]); err != nil {
			return i, err
		}
	}
	return len(items), nil
}
