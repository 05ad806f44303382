package visits

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, v Visit) error
	GetByID(ctx context.Context, id string) (Visit, error)
	// fechas inclusivas
	ListBetween(ctx context.Context, recipientID string, from, to time.Time) ([]Visit, error)
	Delete(ctx context.Context, id string) error
}
