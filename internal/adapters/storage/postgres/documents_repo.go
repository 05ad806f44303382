package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"carecircle/internal/domain/documents"
)

type DocumentsRepo struct {
	db *sql.DB
}

func NewDocumentsRepo(db *sql.DB) *DocumentsRepo {
	return &DocumentsRepo{db: db}
}

const documentColumns = `
	id, recipient_id, name, category, description,
	content_type, size_bytes, blob_key,
	uploaded_by, uploaded_by_name, uploaded_at`

func (r *DocumentsRepo) Create(ctx context.Context, d documents.Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		d.ID,
		d.RecipientID,
		d.Name,
		string(d.Category),
		d.Description,
		d.ContentType,
		d.SizeBytes,
		d.BlobKey,
		d.UploadedBy,
		d.UploadedByName,
		d.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create document: %w", err)
	}
	return nil
}

func (r *DocumentsRepo) GetByID(ctx context.Context, id string) (documents.Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return documents.Document{}, documents.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return documents.Document{}, documents.ErrNotFound
		}
		return documents.Document{}, fmt.Errorf("postgres: get document: %w", err)
	}
	return d, nil
}

func (r *DocumentsRepo) ListByRecipient(ctx context.Context, recipientID string) ([]documents.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE recipient_id = $1
		ORDER BY uploaded_at ASC
	`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list documents: %w", err)
	}
	defer rows.Close()

	out := make([]documents.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DocumentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete document: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return documents.ErrNotFound
	}
	return nil
}

func scanDocument(s rowScanner) (documents.Document, error) {
	var d documents.Document
	var category string
	if err := s.Scan(
		&d.ID,
		&d.RecipientID,
		&d.Name,
		&category,
		&d.Description,
		&d.ContentType,
		&d.SizeBytes,
		&d.BlobKey,
		&d.UploadedBy,
		&d.UploadedByName,
		&d.UploadedAt,
	); err != nil {
		return documents.Document{}, err
	}
	d.Category = documents.Category(category)
	return d, nil
}
