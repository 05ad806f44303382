package updates

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"carecircle/internal/domain/activity"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("update not found")
	ErrForbidden    = errors.New("forbidden")
)

const (
	MaxContentLen = 5000

	DefaultLimit = 50
	MaxLimit     = 200
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

type PostInput struct {
	RecipientID string
	Author      Author
	Content     string
}

func (s *Service) Post(ctx context.Context, in PostInput) (Update, error) {
	content := strings.TrimSpace(in.Content)
	if strings.TrimSpace(in.RecipientID) == "" || strings.TrimSpace(in.Author.UserID) == "" {
		return Update{}, ErrInvalidInput
	}
	if content == "" || utf8.RuneCountInString(content) > MaxContentLen {
		return Update{}, ErrInvalidInput
	}

	u := Update{
		ID:          uuid.NewString(),
		RecipientID: in.RecipientID,
		Author:      in.Author,
		Content:     content,
		LikedBy:     []string{},
		Comments:    []Comment{},
		CreatedAt:   s.now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return Update{}, err
	}

	activity.Record(ctx, s.activity, activity.PublishInput{
		UserID:      in.Author.UserID,
		ActorName:   in.Author.Name,
		RecipientID: in.RecipientID,
		Type:        activity.TypeUpdate,
		Description: "Posted an update",
	})
	return u, nil
}

type ListFilter struct {
	Query string // búsqueda case-insensitive en contenido y autor
	Limit int
}

// List: más nuevos primero.
func (s *Service) List(ctx context.Context, recipientID string, f ListFilter) ([]Update, error) {
	items, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]Update, 0, len(items))
	for _, u := range items {
		if q != "" &&
			!strings.Contains(strings.ToLower(u.Content), q) &&
			!strings.Contains(strings.ToLower(u.Author.Name), q) {
			continue
		}
		out = append(out, u)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, recipientID, updateID string) (Update, error) {
	u, err := s.repo.GetByID(ctx, strings.TrimSpace(updateID))
	if err != nil {
		return Update{}, ErrNotFound
	}
	// un update de otro recipient no existe para este
	if u.RecipientID != recipientID {
		return Update{}, ErrNotFound
	}
	return u, nil
}

// Like es idempotente por usuario.
func (s *Service) Like(ctx context.Context, recipientID, updateID, userID string) (Update, error) {
	u, err := s.Get(ctx, recipientID, updateID)
	if err != nil {
		return Update{}, err
	}
	return s.repo.AddLike(ctx, u.ID, userID)
}

func (s *Service) Unlike(ctx context.Context, recipientID, updateID, userID string) (Update, error) {
	u, err := s.Get(ctx, recipientID, updateID)
	if err != nil {
		return Update{}, err
	}
	return s.repo.RemoveLike(ctx, u.ID, userID)
}

func (s *Service) Comment(ctx context.Context, recipientID, updateID string, author Author, content string) (Update, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxContentLen {
		return Update{}, ErrInvalidInput
	}

	u, err := s.Get(ctx, recipientID, updateID)
	if err != nil {
		return Update{}, err
	}

	u, err = s.repo.AppendComment(ctx, u.ID, Comment{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		CreatedAt: s.now(),
	})
	if err != nil {
		return Update{}, err
	}

	activity.Record(ctx, s.activity, activity.PublishInput{
		UserID:      author.UserID,
		ActorName:   author.Name,
		RecipientID: recipientID,
		Type:        activity.TypeUpdate,
		Description: "Commented on an update",
	})
	return u, nil
}

// Delete: solo el autor o el owner del recipient.
func (s *Service) Delete(ctx context.Context, recipientID, updateID, userID string, isOwner bool) error {
	u, err := s.Get(ctx, recipientID, updateID)
	if err != nil {
		return err
	}
	if !isOwner && u.Author.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, u.ID)
}
