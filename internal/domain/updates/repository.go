package updates

import "context"

type Repository interface {
	Create(ctx context.Context, u Update) error
	GetByID(ctx context.Context, id string) (Update, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]Update, error)
	Delete(ctx context.Context, id string) error

	// Likes y comentarios se aplican en el repo, sin reescribir el update
	// completo: dos miembros pueden reaccionar a la vez.
	AddLike(ctx context.Context, id, userID string) (Update, error)
	RemoveLike(ctx context.Context, id, userID string) (Update, error)
	AppendComment(ctx context.Context, id string, c Comment) (Update, error)
}
