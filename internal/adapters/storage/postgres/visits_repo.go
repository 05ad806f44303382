package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"carecircle/internal/domain/visits"
)

type VisitsRepo struct {
	db *sql.DB
}

func NewVisitsRepo(db *sql.DB) *VisitsRepo {
	return &VisitsRepo{db: db}
}

const visitColumns = `
	id, recipient_id, visitor_name,
	visit_date, start_time, end_time, notes,
	created_by, created_by_name, created_at`

func (r *VisitsRepo) Create(ctx context.Context, v visits.Visit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visits (`+visitColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		v.ID,
		v.RecipientID,
		v.VisitorName,
		v.DateString(),
		v.StartTime,
		v.EndTime,
		v.Notes,
		v.CreatedBy,
		v.CreatedByName,
		v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create visit: %w", err)
	}
	return nil
}

func (r *VisitsRepo) GetByID(ctx context.Context, id string) (visits.Visit, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return visits.Visit{}, visits.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+visitColumns+` FROM visits WHERE id = $1`, id)
	v, err := scanVisit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return visits.Visit{}, visits.ErrNotFound
		}
		return visits.Visit{}, fmt.Errorf("postgres: get visit: %w", err)
	}
	return v, nil
}

func (r *VisitsRepo) ListBetween(ctx context.Context, recipientID string, from, to time.Time) ([]visits.Visit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+visitColumns+` FROM visits
		WHERE recipient_id = $1
		  AND visit_date BETWEEN $2::date AND $3::date
		ORDER BY visit_date ASC, start_time ASC
	`, recipientID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("postgres: list visits: %w", err)
	}
	defer rows.Close()

	out := make([]visits.Visit, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan visit: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VisitsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete visit: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return visits.ErrNotFound
	}
	return nil
}

func scanVisit(s rowScanner) (visits.Visit, error) {
	var v visits.Visit
	if err := s.Scan(
		&v.ID,
		&v.RecipientID,
		&v.VisitorName,
		&v.Date,
		&v.StartTime,
		&v.EndTime,
		&v.Notes,
		&v.CreatedBy,
		&v.CreatedByName,
		&v.CreatedAt,
	); err != nil {
		return visits.Visit{}, err
	}
	return v, nil
}
