package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"carecircle/internal/domain/circle"
)

type MembershipsRepo struct {
	db *sql.DB
}

func NewMembershipsRepo(db *sql.DB) *MembershipsRepo {
	return &MembershipsRepo{db: db}
}

const membershipColumns = `
	id, recipient_id, owner_user_id, member_user_id,
	display_name, relationship,
	scopes, status,
	created_at, updated_at, revoked_at`

func (r *MembershipsRepo) Create(ctx context.Context, m circle.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (`+membershipColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		m.ID,
		m.RecipientID,
		m.OwnerUserID,
		m.MemberUserID,
		m.DisplayName,
		m.Relationship,
		scopesToTextArray(m.Scopes),
		string(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
		toNullTime(m.RevokedAt),
	)
	if err != nil {
		return fmt.Errorf("postgres: create membership: %w", err)
	}
	return nil
}

func (r *MembershipsRepo) Update(ctx context.Context, m circle.Membership) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET
			display_name = $2,
			relationship = $3,
			scopes = $4,
			status = $5,
			updated_at = $6,
			revoked_at = $7
		WHERE id = $1
	`,
		m.ID,
		m.DisplayName,
		m.Relationship,
		scopesToTextArray(m.Scopes),
		string(m.Status),
		m.UpdatedAt,
		toNullTime(m.RevokedAt),
	)
	if err != nil {
		return fmt.Errorf("postgres: update membership: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return circle.ErrNotFound
	}
	return nil
}

func (r *MembershipsRepo) GetByID(ctx context.Context, id string) (circle.Membership, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return circle.Membership{}, circle.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+membershipColumns+` FROM memberships WHERE id = $1`, id)
	return r.one(row)
}

func (r *MembershipsRepo) ListByRecipient(ctx context.Context, recipientID string) ([]circle.Membership, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE recipient_id = $1
		ORDER BY created_at ASC
	`, recipientID)
}

func (r *MembershipsRepo) ListByMember(ctx context.Context, memberUserID string) ([]circle.Membership, error) {
	memberUserID = strings.TrimSpace(memberUserID)
	if memberUserID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE member_user_id = $1
		ORDER BY created_at ASC
	`, memberUserID)
}

func (r *MembershipsRepo) GetActive(ctx context.Context, recipientID, memberUserID string) (circle.Membership, error) {
	recipientID = strings.TrimSpace(recipientID)
	memberUserID = strings.TrimSpace(memberUserID)
	if recipientID == "" || memberUserID == "" {
		return circle.Membership{}, circle.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE recipient_id = $1
		  AND member_user_id = $2
		  AND status = 'active'
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1
	`, recipientID, memberUserID)
	return r.one(row)
}

func (r *MembershipsRepo) one(row *sql.Row) (circle.Membership, error) {
	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return circle.Membership{}, circle.ErrNotFound
		}
		return circle.Membership{}, fmt.Errorf("postgres: get membership: %w", err)
	}
	return m, nil
}

func (r *MembershipsRepo) list(ctx context.Context, query string, args ...any) ([]circle.Membership, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list memberships: %w", err)
	}
	defer rows.Close()

	out := make([]circle.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan membership: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMembership(s rowScanner) (circle.Membership, error) {
	var m circle.Membership
	var status string
	var scopes []string
	var revokedAt sql.NullTime

	if err := s.Scan(
		&m.ID,
		&m.RecipientID,
		&m.OwnerUserID,
		&m.MemberUserID,
		&m.DisplayName,
		&m.Relationship,
		textArray(&scopes),
		&status,
		&m.CreatedAt,
		&m.UpdatedAt,
		&revokedAt,
	); err != nil {
		return circle.Membership{}, err
	}

	m.Status = circle.Status(status)
	m.Scopes = textArrayToScopes(scopes)
	m.RevokedAt = fromNullTime(revokedAt)
	return m, nil
}

// helpers
func scopesToTextArray(in []circle.Scope) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func textArrayToScopes(in []string) []circle.Scope {
	out := make([]circle.Scope, 0, len(in))
	for _, s := range in {
		out = append(out, circle.Scope(s))
	}
	return out
}
