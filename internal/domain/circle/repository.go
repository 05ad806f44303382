package circle

import "context"

type Repository interface {
	Create(ctx context.Context, m Membership) error
	Update(ctx context.Context, m Membership) error
	GetByID(ctx context.Context, id string) (Membership, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]Membership, error)
	ListByMember(ctx context.Context, memberUserID string) ([]Membership, error)
	GetActive(ctx context.Context, recipientID, memberUserID string) (Membership, error)
}
