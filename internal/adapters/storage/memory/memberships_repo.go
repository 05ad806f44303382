package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"carecircle/internal/domain/circle"
)

type membershipRepo struct {
	mu   sync.RWMutex
	byID map[string]circle.Membership
}

func NewMembershipsRepo() circle.Repository {
	return &membershipRepo{
		byID: make(map[string]circle.Membership),
	}
}

func cloneMembership(m circle.Membership) circle.Membership {
	m.Scopes = cloneSlice(m.Scopes)
	m.RevokedAt = clonePtr(m.RevokedAt)
	return m
}

func (r *membershipRepo) Create(ctx context.Context, m circle.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("membership id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("membership already exists")
	}
	r.byID[m.ID] = cloneMembership(m)
	return nil
}

func (r *membershipRepo) Update(ctx context.Context, m circle.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID]; !exists {
		return circle.ErrNotFound
	}
	r.byID[m.ID] = cloneMembership(m)
	return nil
}

func (r *membershipRepo) GetByID(ctx context.Context, id string) (circle.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return circle.Membership{}, circle.ErrNotFound
	}
	return cloneMembership(m), nil
}

func (r *membershipRepo) ListByRecipient(ctx context.Context, recipientID string) ([]circle.Membership, error) {
	return r.list(func(m circle.Membership) bool { return m.RecipientID == recipientID }), nil
}

func (r *membershipRepo) ListByMember(ctx context.Context, memberUserID string) ([]circle.Membership, error) {
	return r.list(func(m circle.Membership) bool { return m.MemberUserID == memberUserID }), nil
}

func (r *membershipRepo) list(keep func(circle.Membership) bool) []circle.Membership {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]circle.Membership, 0)
	for _, m := range r.byID {
		if keep(m) {
			out = append(out, cloneMembership(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Si por data sucia existieran varios activos, gana el más reciente
// por UpdatedAt (y en empate, por CreatedAt).
func (r *membershipRepo) GetActive(ctx context.Context, recipientID, memberUserID string) (circle.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var winner circle.Membership
	has := false

	for _, m := range r.byID {
		if m.RecipientID != recipientID || m.MemberUserID != memberUserID {
			continue
		}
		if m.Status != circle.StatusActive {
			continue
		}

		if !has {
			winner, has = m, true
			continue
		}
		if m.UpdatedAt.After(winner.UpdatedAt) ||
			(m.UpdatedAt.Equal(winner.UpdatedAt) && m.CreatedAt.After(winner.CreatedAt)) {
			winner = m
		}
	}

	if !has {
		return circle.Membership{}, circle.ErrNotFound
	}
	return cloneMembership(winner), nil
}
