package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"carecircle/internal/domain/tasks"
)

type taskRepo struct {
	mu   sync.RWMutex
	byID map[string]tasks.Task
}

func NewTasksRepo() tasks.Repository {
	return &taskRepo{byID: make(map[string]tasks.Task)}
}

func cloneTask(t tasks.Task) tasks.Task {
	t.CompletedAt = clonePtr(t.CompletedAt)
	t.CompletedBy = clonePtr(t.CompletedBy)
	return t
}

func (r *taskRepo) Create(ctx context.Context, t tasks.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		return errors.New("task id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("task already exists")
	}
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *taskRepo) Update(ctx context.Context, t tasks.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[t.ID]; !exists {
		return tasks.ErrNotFound
	}
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *taskRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return cloneTask(t), nil
}

func (r *taskRepo) ListByRecipient(ctx context.Context, recipientID string) ([]tasks.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tasks.Task, 0)
	for _, t := range r.byID {
		if t.RecipientID == recipientID {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return tasks.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
