package memory

import (
	"context"
	"errors"
	"sync"

	"carecircle/internal/domain/profiles"
)

type profileRepo struct {
	mu     sync.RWMutex
	byUser map[string]profiles.Profile
}

func NewProfilesRepo() profiles.Repository {
	return &profileRepo{byUser: make(map[string]profiles.Profile)}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (profiles.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return profiles.Profile{}, profiles.ErrNotFound
	}
	return p, nil
}

// Save es upsert por user_id.
func (r *profileRepo) Save(ctx context.Context, p profiles.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.UserID == "" {
		return errors.New("profile user_id required")
	}
	r.byUser[p.UserID] = p
	return nil
}
