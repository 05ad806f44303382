package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"carecircle/internal/domain/activity"
)

type activityRepo struct {
	mu     sync.RWMutex
	byID   map[string]activity.Entry
	byUser map[string][]string
}

func NewActivityRepo() activity.Repository {
	return &activityRepo{
		byID:   make(map[string]activity.Entry),
		byUser: make(map[string][]string),
	}
}

func (r *activityRepo) Create(ctx context.Context, e activity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("activity id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("activity already exists")
	}
	r.byID[e.ID] = e
	r.byUser[e.UserID] = append(r.byUser[e.UserID], e.ID)
	return nil
}

func (r *activityRepo) ListByUser(ctx context.Context, userID string, limit int) ([]activity.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	out := make([]activity.Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}

	// más reciente primero
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
