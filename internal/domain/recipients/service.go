package recipients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("recipient not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name      string
	BirthDate *time.Time
	Timezone  string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Recipient, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Recipient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Recipient{}, ErrInvalidInput
	}

	tz, err := normalizeTimezone(in.Timezone)
	if err != nil {
		return Recipient{}, err
	}

	now := s.now()
	r := Recipient{
		ID:          uuid.NewString(),
		OwnerUserID: strings.TrimSpace(ownerUserID),
		Name:        strings.TrimSpace(in.Name),
		BirthDate:   in.BirthDate,
		Timezone:    tz,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Recipient{}, err
	}
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Recipient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Recipient{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Recipient, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// ListAll lo usa el sweeper de recordatorios.
func (s *Service) ListAll(ctx context.Context) ([]Recipient, error) {
	return s.repo.ListAll(ctx)
}

// PatchDate distingue "no enviado" de "enviado null" (limpiar).
type PatchDate struct {
	Present bool
	Value   *time.Time
}

type UpdateProfileInput struct {
	// nil = no tocar
	Name      *string
	BirthDate PatchDate
	Timezone  *string
	Notes     *string
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (Recipient, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Recipient{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Recipient{}, ErrInvalidInput
		}
		current.Name = name
	}
	if in.BirthDate.Present {
		current.BirthDate = in.BirthDate.Value
	}
	if in.Timezone != nil {
		tz, err := normalizeTimezone(*in.Timezone)
		if err != nil {
			return Recipient{}, err
		}
		current.Timezone = tz
	}
	if in.Notes != nil {
		current.Notes = strings.TrimSpace(*in.Notes)
	}

	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Recipient{}, err
	}
	return current, nil
}

func normalizeTimezone(tz string) (string, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return "UTC", nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return "", ErrInvalidInput
	}
	return tz, nil
}
