package profiles

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("profile not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.GetByUserID(ctx, userID)
}

type UpsertInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Role          Role
	Relationship  string
	AvatarURL     string
	Notifications NotificationPrefs
}

// Upsert reemplaza el perfil completo (PUT). JoinedAt se conserva.
func (s *Service) Upsert(ctx context.Context, userID string, in UpsertInput) (Profile, error) {
	userID = strings.TrimSpace(userID)
	first := strings.TrimSpace(in.FirstName)
	email := strings.TrimSpace(in.Email)
	if userID == "" || first == "" || email == "" {
		return Profile{}, ErrInvalidInput
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return Profile{}, ErrInvalidInput
	}
	if in.Role == "" {
		in.Role = RoleCaregiver
	}
	if !in.Role.Valid() {
		return Profile{}, ErrInvalidInput
	}

	now := s.now()
	joined := now
	prev, err := s.repo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		joined = prev.JoinedAt
	case !errors.Is(err, ErrNotFound):
		return Profile{}, err
	}

	p := Profile{
		UserID:        userID,
		FirstName:     first,
		LastName:      strings.TrimSpace(in.LastName),
		Email:         email,
		Phone:         strings.TrimSpace(in.Phone),
		Role:          in.Role,
		Relationship:  strings.TrimSpace(in.Relationship),
		AvatarURL:     strings.TrimSpace(in.AvatarURL),
		Notifications: in.Notifications,
		JoinedAt:      joined,
		UpdatedAt:     now,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
