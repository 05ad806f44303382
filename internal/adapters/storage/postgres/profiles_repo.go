package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carecircle/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) GetByUserID(ctx context.Context, userID string) (profiles.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			user_id, first_name, last_name, email, phone,
			role, relationship, avatar_url,
			notify_email, notify_push, notify_sms,
			joined_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`, userID)

	var p profiles.Profile
	var role string
	if err := row.Scan(
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&role,
		&p.Relationship,
		&p.AvatarURL,
		&p.Notifications.Email,
		&p.Notifications.Push,
		&p.Notifications.SMS,
		&p.JoinedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profiles.Profile{}, profiles.ErrNotFound
		}
		return profiles.Profile{}, fmt.Errorf("postgres: get profile: %w", err)
	}
	p.Role = profiles.Role(role)
	return p, nil
}

// Save es upsert por user_id; joined_at no se pisa.
func (r *ProfilesRepo) Save(ctx context.Context, p profiles.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (
			user_id, first_name, last_name, email, phone,
			role, relationship, avatar_url,
			notify_email, notify_push, notify_sms,
			joined_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			role = EXCLUDED.role,
			relationship = EXCLUDED.relationship,
			avatar_url = EXCLUDED.avatar_url,
			notify_email = EXCLUDED.notify_email,
			notify_push = EXCLUDED.notify_push,
			notify_sms = EXCLUDED.notify_sms,
			updated_at = EXCLUDED.updated_at
	`,
		p.UserID,
		p.FirstName,
		p.LastName,
		p.Email,
		p.Phone,
		string(p.Role),
		p.Relationship,
		p.AvatarURL,
		p.Notifications.Email,
		p.Notifications.Push,
		p.Notifications.SMS,
		p.JoinedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: save profile: %w", err)
	}
	return nil
}
