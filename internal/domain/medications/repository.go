package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	Update(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]Medication, error)

	CreateDoseLog(ctx context.Context, d DoseLog) error
	// newest first
	ListDoseLogs(ctx context.Context, recipientID string) ([]DoseLog, error)
}
