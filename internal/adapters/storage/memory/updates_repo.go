package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"carecircle/internal/domain/updates"
)

type updateRepo struct {
	mu   sync.RWMutex
	byID map[string]updates.Update
}

func NewUpdatesRepo() updates.Repository {
	return &updateRepo{byID: make(map[string]updates.Update)}
}

func cloneUpdate(u updates.Update) updates.Update {
	u.LikedBy = cloneSlice(u.LikedBy)
	u.Comments = cloneSlice(u.Comments)
	return u
}

func (r *updateRepo) Create(ctx context.Context, u updates.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return errors.New("update id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("update already exists")
	}
	r.byID[u.ID] = cloneUpdate(u)
	return nil
}

func (r *updateRepo) GetByID(ctx context.Context, id string) (updates.Update, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return updates.Update{}, updates.ErrNotFound
	}
	return cloneUpdate(u), nil
}

func (r *updateRepo) ListByRecipient(ctx context.Context, recipientID string) ([]updates.Update, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]updates.Update, 0)
	for _, u := range r.byID {
		if u.RecipientID == recipientID {
			out = append(out, cloneUpdate(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *updateRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return updates.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// mutate aplica fn bajo el lock de escritura y devuelve una copia.
func (r *updateRepo) mutate(id string, fn func(u *updates.Update)) (updates.Update, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return updates.Update{}, updates.ErrNotFound
	}
	fn(&u)
	r.byID[id] = u
	return cloneUpdate(u), nil
}

func (r *updateRepo) AddLike(ctx context.Context, id, userID string) (updates.Update, error) {
	return r.mutate(id, func(u *updates.Update) {
		if !u.LikedByUser(userID) {
			u.LikedBy = append(cloneSlice(u.LikedBy), userID)
		}
	})
}

func (r *updateRepo) RemoveLike(ctx context.Context, id, userID string) (updates.Update, error) {
	return r.mutate(id, func(u *updates.Update) {
		kept := make([]string, 0, len(u.LikedBy))
		for _, l := range u.LikedBy {
			if l != userID {
				kept = append(kept, l)
			}
		}
		u.LikedBy = kept
	})
}

func (r *updateRepo) AppendComment(ctx context.Context, id string, c updates.Comment) (updates.Update, error) {
	return r.mutate(id, func(u *updates.Update) {
		u.Comments = append(cloneSlice(u.Comments), c)
	})
}
