package tasks

import "context"

type Repository interface {
	Create(ctx context.Context, t Task) error
	Update(ctx context.Context, t Task) error
	GetByID(ctx context.Context, id string) (Task, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]Task, error)
	Delete(ctx context.Context, id string) error
}
