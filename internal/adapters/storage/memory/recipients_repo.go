package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"carecircle/internal/domain/recipients"
)

type recipientRepo struct {
	mu   sync.RWMutex
	byID map[string]recipients.Recipient
}

func NewRecipientsRepo() recipients.Repository {
	return &recipientRepo{
		byID: make(map[string]recipients.Recipient),
	}
}

func cloneRecipient(r recipients.Recipient) recipients.Recipient {
	r.BirthDate = clonePtr(r.BirthDate)
	return r
}

func (r *recipientRepo) Create(ctx context.Context, rec recipients.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("recipient id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return errors.New("recipient already exists")
	}
	r.byID[rec.ID] = cloneRecipient(rec)
	return nil
}

func (r *recipientRepo) Update(ctx context.Context, rec recipients.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rec.ID]; !exists {
		return recipients.ErrNotFound
	}
	r.byID[rec.ID] = cloneRecipient(rec)
	return nil
}

func (r *recipientRepo) GetByID(ctx context.Context, id string) (recipients.Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return recipients.Recipient{}, recipients.ErrNotFound
	}
	return cloneRecipient(rec), nil
}

func (r *recipientRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]recipients.Recipient, error) {
	return r.list(func(rec recipients.Recipient) bool { return rec.OwnerUserID == ownerUserID }), nil
}

func (r *recipientRepo) ListAll(ctx context.Context) ([]recipients.Recipient, error) {
	return r.list(func(recipients.Recipient) bool { return true }), nil
}

func (r *recipientRepo) list(keep func(recipients.Recipient) bool) []recipients.Recipient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]recipients.Recipient, 0)
	for _, rec := range r.byID {
		if keep(rec) {
			out = append(out, cloneRecipient(rec))
		}
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
