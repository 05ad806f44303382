package activity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"carecircle/internal/platform/logger"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

// Subscriber recibe cada entry publicado (p.ej. notifications).
type Subscriber interface {
	OnActivity(ctx context.Context, e Entry) error
}

// Publisher es lo que necesitan los demás módulos para registrar actividad.
type Publisher interface {
	Publish(ctx context.Context, in PublishInput) (Entry, error)
}

type PublishInput struct {
	UserID      string
	ActorName   string
	RecipientID string
	Type        Type
	Description string
}

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time

	mu   sync.RWMutex
	subs []Subscriber
}

func NewService(repo Repository, lg logger.Logger) *Service {
	if lg == nil {
		lg = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  lg,
		now:  time.Now,
	}
}

func (s *Service) Subscribe(sub Subscriber) {
	if sub == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
}

// Publish guarda el entry y lo reparte a los subscribers.
// Un subscriber que falla se loguea pero no corta la acción del usuario.
func (s *Service) Publish(ctx context.Context, in PublishInput) (Entry, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.Description) == "" || in.Type == "" {
		return Entry{}, ErrInvalidInput
	}

	e := Entry{
		ID:          uuid.NewString(),
		UserID:      strings.TrimSpace(in.UserID),
		ActorName:   strings.TrimSpace(in.ActorName),
		RecipientID: strings.TrimSpace(in.RecipientID),
		Type:        in.Type,
		Description: strings.TrimSpace(in.Description),
		OccurredAt:  s.now(),
	}
	if e.ActorName == "" {
		e.ActorName = e.UserID
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}

	s.mu.RLock()
	subs := append([]Subscriber(nil), s.subs...)
	s.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.OnActivity(ctx, e); err != nil {
			s.log.Warn("activity subscriber failed", map[string]any{
				"entry_id": e.ID,
				"type":     string(e.Type),
				"error":    err,
			})
		}
	}
	return e, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// Record publica sin cortar la acción que la originó: el error se loguea
// (Warn, con el logger del request) y se descarta.
func Record(ctx context.Context, pub Publisher, in PublishInput) {
	if _, err := pub.Publish(ctx, in); err != nil {
		logger.FromContext(ctx).Warn("activity publish failed", map[string]any{
			"user_id":      in.UserID,
			"recipient_id": in.RecipientID,
			"type":         string(in.Type),
			"error":        err,
		})
	}
}

// Nop descarta la actividad. Útil en tests de otros módulos.
type Nop struct{}

func (Nop) Publish(_ context.Context, in PublishInput) (Entry, error) {
	return Entry{UserID: in.UserID, RecipientID: in.RecipientID, Type: in.Type, Description: in.Description}, nil
}
