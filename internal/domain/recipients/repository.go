package recipients

import "context"

type Repository interface {
	Create(ctx context.Context, r Recipient) error
	Update(ctx context.Context, r Recipient) error
	GetByID(ctx context.Context, id string) (Recipient, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Recipient, error)
	ListAll(ctx context.Context) ([]Recipient, error)
}
