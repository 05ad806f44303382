package profiles

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	Save(ctx context.Context, p Profile) error
}
