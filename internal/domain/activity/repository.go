package activity

import "context"

type Repository interface {
	Create(ctx context.Context, e Entry) error
	// newest first; limit <= 0 => sin límite
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}
