package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"carecircle/internal/domain/activity"
)

type ActivityRepo struct {
	db *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Create(ctx context.Context, e activity.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity (
			id, user_id, actor_name, recipient_id,
			type, description, occurred_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		e.ID,
		e.UserID,
		e.ActorName,
		e.RecipientID,
		string(e.Type),
		e.Description,
		e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create activity: %w", err)
	}
	return nil
}

func (r *ActivityRepo) ListByUser(ctx context.Context, userID string, limit int) ([]activity.Entry, error) {
	q := `
		SELECT id, user_id, actor_name, recipient_id, type, description, occurred_at
		FROM activity
		WHERE user_id = $1
		ORDER BY occurred_at DESC`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list activity: %w", err)
	}
	defer rows.Close()

	out := make([]activity.Entry, 0)
	for rows.Next() {
		var e activity.Entry
		var typ string
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.ActorName,
			&e.RecipientID,
			&typ,
			&e.Description,
			&e.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan activity: %w", err)
		}
		e.Type = activity.Type(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}
