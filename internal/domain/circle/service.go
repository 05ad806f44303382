package circle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("membership not found")
	ErrBadState          = errors.New("invalid state")
	ErrRecipientNotFound = errors.New("recipient not found")
)

var defaultInvitedScopes = []Scope{ScopeRecipientRead, ScopeUpdatesRead}

// RecipientOwnerLookup evita importar el paquete recipients (rompe ciclos).
type RecipientOwnerLookup interface {
	OwnerOf(ctx context.Context, recipientID string) (string, error)
}

type Service struct {
	repo   Repository
	owners RecipientOwnerLookup
	now    func() time.Time
}

func NewService(repo Repository, owners RecipientOwnerLookup) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		now:    time.Now,
	}
}

type InviteInput struct {
	RecipientID  string
	OwnerUserID  string
	MemberUserID string
	DisplayName  string
	Relationship string
	Scopes       []Scope
}

func (s *Service) Invite(ctx context.Context, in InviteInput) (Membership, error) {
	recipientID := strings.TrimSpace(in.RecipientID)
	ownerID := strings.TrimSpace(in.OwnerUserID)
	memberID := strings.TrimSpace(in.MemberUserID)

	if recipientID == "" || ownerID == "" || memberID == "" {
		return Membership{}, ErrInvalidInput
	}
	if ownerID == memberID {
		return Membership{}, ErrInvalidInput
	}

	// Scopes: vacío => default útil (ver perfil + ver updates).
	// Si vienen valores, se validan estrictamente.
	var scopes []Scope
	if len(in.Scopes) == 0 {
		scopes = append([]Scope(nil), defaultInvitedScopes...)
	} else {
		var err error
		scopes, err = normalizeScopesStrict(in.Scopes)
		if err != nil {
			return Membership{}, err
		}
		if len(scopes) == 0 {
			return Membership{}, ErrInvalidInput
		}
	}

	now := s.now()

	existing, allMatches, err := s.findLatestMatch(ctx, recipientID, ownerID, memberID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Membership{}, err
	}
	if err == nil && existing.Status != StatusRevoked {
		// Re-invitar actualiza el mismo membership y revoca duplicados.
		s.revokeOthers(ctx, existing.ID, allMatches, now)

		existing.Scopes = scopes
		if v := strings.TrimSpace(in.DisplayName); v != "" {
			existing.DisplayName = v
		}
		if v := strings.TrimSpace(in.Relationship); v != "" {
			existing.Relationship = v
		}
		existing.UpdatedAt = now

		if err := s.repo.Update(ctx, existing); err != nil {
			return Membership{}, err
		}
		return existing, nil
	}

	m := Membership{
		ID:           uuid.NewString(),
		RecipientID:  recipientID,
		OwnerUserID:  ownerID,
		MemberUserID: memberID,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Relationship: strings.TrimSpace(in.Relationship),
		Scopes:       scopes,
		Status:       StatusInvited,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if m.DisplayName == "" {
		m.DisplayName = memberID
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) Accept(ctx context.Context, membershipID, memberUserID string) (Membership, error) {
	membershipID = strings.TrimSpace(membershipID)
	memberUserID = strings.TrimSpace(memberUserID)

	if membershipID == "" || memberUserID == "" {
		return Membership{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return Membership{}, ErrNotFound
	}

	if m.MemberUserID != memberUserID {
		return Membership{}, ErrForbidden
	}
	switch m.Status {
	case StatusRevoked:
		return Membership{}, ErrBadState
	case StatusActive:
		return m, nil // idempotente
	case StatusInvited:
	default:
		return Membership{}, ErrBadState
	}

	now := s.now()

	// Con data sucia puede haber varios memberships para el mismo
	// (recipient, member). Al aceptar queda uno solo vigente.
	others, err := s.repo.ListByRecipient(ctx, m.RecipientID)
	if err != nil {
		return Membership{}, err
	}
	matches := make([]Membership, 0, len(others))
	for _, o := range others {
		if o.MemberUserID == m.MemberUserID {
			matches = append(matches, o)
		}
	}
	s.revokeOthers(ctx, m.ID, matches, now)

	m.Status = StatusActive
	m.UpdatedAt = now

	if err := s.repo.Update(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) Revoke(ctx context.Context, membershipID, ownerUserID string) (Membership, error) {
	membershipID = strings.TrimSpace(membershipID)
	ownerUserID = strings.TrimSpace(ownerUserID)

	if membershipID == "" || ownerUserID == "" {
		return Membership{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		return Membership{}, ErrNotFound
	}
	if m.OwnerUserID != ownerUserID {
		return Membership{}, ErrForbidden
	}
	if m.Status == StatusRevoked {
		return m, nil
	}

	now := s.now()
	m.Status = StatusRevoked
	m.UpdatedAt = now
	m.RevokedAt = &now

	if err := s.repo.Update(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

func (s *Service) ListByRecipient(ctx context.Context, recipientID string) ([]Membership, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByRecipient(ctx, recipientID)
}

func (s *Service) ListByMember(ctx context.Context, memberUserID string) ([]Membership, error) {
	memberUserID = strings.TrimSpace(memberUserID)
	if memberUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByMember(ctx, memberUserID)
}

func (s *Service) GetActiveMembership(ctx context.Context, recipientID, memberUserID string) (Membership, error) {
	recipientID = strings.TrimSpace(recipientID)
	memberUserID = strings.TrimSpace(memberUserID)

	if recipientID == "" || memberUserID == "" {
		return Membership{}, ErrInvalidInput
	}
	m, err := s.repo.GetActive(ctx, recipientID, memberUserID)
	if err != nil {
		return Membership{}, ErrNotFound
	}
	return m, nil
}

// Authorize: owner bypass; si no, membership activo con el scope pedido.
func (s *Service) Authorize(ctx context.Context, recipientID, userID string, scope Scope) (Access, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Access{}, ErrForbidden
	}

	ownerID, err := s.owners.OwnerOf(ctx, recipientID)
	if err != nil || strings.TrimSpace(ownerID) == "" {
		return Access{}, ErrRecipientNotFound
	}
	if ownerID == userID {
		return Access{UserID: userID, IsOwner: true}, nil
	}

	m, err := s.GetActiveMembership(ctx, recipientID, userID)
	if err != nil {
		return Access{}, ErrForbidden
	}
	access := Access{UserID: userID, Membership: m}
	if scope != "" && !access.Can(scope) {
		return Access{}, ErrForbidden
	}
	return access, nil
}

// Member es un destinatario de notificaciones dentro del circle.
type Member struct {
	UserID      string
	DisplayName string
}

// Audience: dueño + miembros activos del recipient.
func (s *Service) Audience(ctx context.Context, recipientID string) ([]Member, error) {
	ownerID, err := s.owners.OwnerOf(ctx, recipientID)
	if err != nil {
		return nil, ErrRecipientNotFound
	}

	items, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{ownerID: {}}
	out := []Member{{UserID: ownerID}}
	for _, m := range items {
		if m.Status != StatusActive {
			continue
		}
		if _, ok := seen[m.MemberUserID]; ok {
			continue
		}
		seen[m.MemberUserID] = struct{}{}
		out = append(out, Member{UserID: m.MemberUserID, DisplayName: m.DisplayName})
	}
	return out, nil
}

// HasScope valida si el membership incluye un scope.
func HasScope(m Membership, scope Scope) bool {
	for _, s := range m.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func (s *Service) findLatestMatch(ctx context.Context, recipientID, ownerID, memberID string) (Membership, []Membership, error) {
	items, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return Membership{}, nil, err
	}

	matches := make([]Membership, 0)
	var winner Membership
	hasWinner := false

	for _, m := range items {
		if m.OwnerUserID != ownerID || m.MemberUserID != memberID {
			continue
		}
		matches = append(matches, m)

		if !hasWinner || m.UpdatedAt.After(winner.UpdatedAt) {
			winner = m
			hasWinner = true
		}
	}

	if !hasWinner {
		return Membership{}, matches, ErrNotFound
	}
	return winner, matches, nil
}

func (s *Service) revokeOthers(ctx context.Context, winnerID string, matches []Membership, now time.Time) {
	for _, m := range matches {
		if m.ID == "" || m.ID == winnerID || m.Status == StatusRevoked {
			continue
		}
		m.Status = StatusRevoked
		m.UpdatedAt = now
		m.RevokedAt = &now
		_ = s.repo.Update(ctx, m) // best-effort
	}
}

func normalizeScopesStrict(in []Scope) ([]Scope, error) {
	seen := map[Scope]struct{}{}
	out := make([]Scope, 0, len(in))

	for _, raw := range in {
		s := Scope(strings.TrimSpace(string(raw)))
		if s == "" {
			continue
		}
		if _, ok := allScopes[s]; !ok {
			return nil, ErrInvalidInput
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out, nil
}
