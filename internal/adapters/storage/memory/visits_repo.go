package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"carecircle/internal/domain/visits"
)

type visitRepo struct {
	mu   sync.RWMutex
	byID map[string]visits.Visit
}

func NewVisitsRepo() visits.Repository {
	return &visitRepo{byID: make(map[string]visits.Visit)}
}

func (r *visitRepo) Create(ctx context.Context, v visits.Visit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		return errors.New("visit id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("visit already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *visitRepo) GetByID(ctx context.Context, id string) (visits.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return visits.Visit{}, visits.ErrNotFound
	}
	return v, nil
}

// ListBetween compara fechas calendario (from y to inclusive),
// ordenadas por fecha y hora de inicio.
func (r *visitRepo) ListBetween(ctx context.Context, recipientID string, from, to time.Time) ([]visits.Visit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lo, hi := dateKey(from), dateKey(to)

	out := make([]visits.Visit, 0)
	for _, v := range r.byID {
		if v.RecipientID != recipientID {
			continue
		}
		if d := dateKey(v.Date); d < lo || d > hi {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := dateKey(out[i].Date), dateKey(out[j].Date)
		if di != dj {
			return di < dj
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *visitRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return visits.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }
