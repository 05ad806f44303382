package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carecircle/internal/domain/updates"
)

type UpdatesRepo struct {
	db *sql.DB
}

func NewUpdatesRepo(db *sql.DB) *UpdatesRepo {
	return &UpdatesRepo{db: db}
}

const updateColumns = `
	id, recipient_id,
	author_user_id, author_name, author_relationship,
	content, liked_by, comments, created_at`

// commentJSON es la forma de cada comentario dentro de updates.comments (JSONB).
type commentJSON struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

func encodeComments(in []updates.Comment) ([]byte, error) {
	out := make([]commentJSON, 0, len(in))
	for _, c := range in {
		out = append(out, commentJSON{
			ID:           c.ID,
			UserID:       c.Author.UserID,
			Name:         c.Author.Name,
			Relationship: c.Author.Relationship,
			Content:      c.Content,
			CreatedAt:    c.CreatedAt,
		})
	}
	return json.Marshal(out)
}

func decodeComments(raw []byte) ([]updates.Comment, error) {
	var in []commentJSON
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, err
		}
	}
	out := make([]updates.Comment, 0, len(in))
	for _, c := range in {
		out = append(out, updates.Comment{
			ID:        c.ID,
			Author:    updates.Author{UserID: c.UserID, Name: c.Name, Relationship: c.Relationship},
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

func (r *UpdatesRepo) Create(ctx context.Context, u updates.Update) error {
	comments, err := encodeComments(u.Comments)
	if err != nil {
		return fmt.Errorf("postgres: encode comments: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO updates (`+updateColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		u.ID,
		u.RecipientID,
		u.Author.UserID,
		u.Author.Name,
		u.Author.Relationship,
		u.Content,
		nonNil(u.LikedBy),
		comments,
		u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create update: %w", err)
	}
	return nil
}

// Likes y comentarios se modifican en la misma sentencia; RETURNING
// devuelve el update ya actualizado.

func (r *UpdatesRepo) AddLike(ctx context.Context, id, userID string) (updates.Update, error) {
	return r.mutate(ctx, "add like", `
		UPDATE updates
		SET liked_by = CASE
			WHEN $2::text = ANY(liked_by) THEN liked_by
			ELSE array_append(liked_by, $2::text)
		END
		WHERE id = $1
		RETURNING `+updateColumns, id, userID)
}

func (r *UpdatesRepo) RemoveLike(ctx context.Context, id, userID string) (updates.Update, error) {
	return r.mutate(ctx, "remove like", `
		UPDATE updates
		SET liked_by = array_remove(liked_by, $2::text)
		WHERE id = $1
		RETURNING `+updateColumns, id, userID)
}

func (r *UpdatesRepo) AppendComment(ctx context.Context, id string, c updates.Comment) (updates.Update, error) {
	one, err := encodeComments([]updates.Comment{c})
	if err != nil {
		return updates.Update{}, fmt.Errorf("postgres: encode comments: %w", err)
	}
	return r.mutate(ctx, "append comment", `
		UPDATE updates
		SET comments = comments || $2::jsonb
		WHERE id = $1
		RETURNING `+updateColumns, id, string(one))
}

func (r *UpdatesRepo) mutate(ctx context.Context, op, query string, args ...any) (updates.Update, error) {
	u, err := scanUpdate(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return updates.Update{}, updates.ErrNotFound
		}
		return updates.Update{}, fmt.Errorf("postgres: %s: %w", op, err)
	}
	return u, nil
}

func (r *UpdatesRepo) GetByID(ctx context.Context, id string) (updates.Update, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return updates.Update{}, updates.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+updateColumns+` FROM updates WHERE id = $1`, id)
	u, err := scanUpdate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return updates.Update{}, updates.ErrNotFound
		}
		return updates.Update{}, fmt.Errorf("postgres: get update: %w", err)
	}
	return u, nil
}

func (r *UpdatesRepo) ListByRecipient(ctx context.Context, recipientID string) ([]updates.Update, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+updateColumns+` FROM updates
		WHERE recipient_id = $1
		ORDER BY created_at ASC
	`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list updates: %w", err)
	}
	defer rows.Close()

	out := make([]updates.Update, 0)
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan update: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UpdatesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM updates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete update: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return updates.ErrNotFound
	}
	return nil
}

func scanUpdate(s rowScanner) (updates.Update, error) {
	var u updates.Update
	var likedBy []string
	var comments []byte

	if err := s.Scan(
		&u.ID,
		&u.RecipientID,
		&u.Author.UserID,
		&u.Author.Name,
		&u.Author.Relationship,
		&u.Content,
		textArray(&likedBy),
		&comments,
		&u.CreatedAt,
	); err != nil {
		return updates.Update{}, err
	}

	cs, err := decodeComments(comments)
	if err != nil {
		return updates.Update{}, err
	}
	u.LikedBy = nonNil(likedBy)
	u.Comments = cs
	return u, nil
}
