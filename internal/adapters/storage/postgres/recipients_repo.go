package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"carecircle/internal/domain/recipients"
)

type RecipientsRepo struct {
	db *sql.DB
}

func NewRecipientsRepo(db *sql.DB) *RecipientsRepo {
	return &RecipientsRepo{db: db}
}

const recipientColumns = `id, owner_user_id, name, birth_date, timezone, notes, created_at, updated_at`

func (r *RecipientsRepo) Create(ctx context.Context, rec recipients.Recipient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recipients (`+recipientColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		rec.ID,
		rec.OwnerUserID,
		rec.Name,
		toNullTime(rec.BirthDate),
		rec.Timezone,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create recipient: %w", err)
	}
	return nil
}

func (r *RecipientsRepo) Update(ctx context.Context, rec recipients.Recipient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recipients
		SET
			name = $2,
			birth_date = $3,
			timezone = $4,
			notes = $5,
			updated_at = $6
		WHERE id = $1
	`,
		rec.ID,
		rec.Name,
		toNullTime(rec.BirthDate),
		rec.Timezone,
		rec.Notes,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update recipient: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return recipients.ErrNotFound
	}
	return nil
}

func (r *RecipientsRepo) GetByID(ctx context.Context, id string) (recipients.Recipient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return recipients.Recipient{}, recipients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+recipientColumns+` FROM recipients WHERE id = $1`, id)
	rec, err := scanRecipient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return recipients.Recipient{}, recipients.ErrNotFound
		}
		return recipients.Recipient{}, fmt.Errorf("postgres: get recipient: %w", err)
	}
	return rec, nil
}

func (r *RecipientsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]recipients.Recipient, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+recipientColumns+` FROM recipients
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
}

func (r *RecipientsRepo) ListAll(ctx context.Context) ([]recipients.Recipient, error) {
	return r.list(ctx, `SELECT `+recipientColumns+` FROM recipients ORDER BY created_at ASC`)
}

func (r *RecipientsRepo) list(ctx context.Context, query string, args ...any) ([]recipients.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recipients: %w", err)
	}
	defer rows.Close()

	out := make([]recipients.Recipient, 0)
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan recipient: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecipient(s rowScanner) (recipients.Recipient, error) {
	var rec recipients.Recipient
	var birth sql.NullTime

	if err := s.Scan(
		&rec.ID,
		&rec.OwnerUserID,
		&rec.Name,
		&birth,
		&rec.Timezone,
		&rec.Notes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return recipients.Recipient{}, err
	}
	rec.BirthDate = fromNullTime(birth)
	return rec, nil
}
