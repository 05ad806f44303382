package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"carecircle/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

const medicationColumns = `
	id, recipient_id, name, dosage,
	frequency, times, rrule, instructions,
	start_date, end_date, status, created_by,
	created_at, updated_at`

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (`+medicationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		m.ID,
		m.RecipientID,
		m.Name,
		m.Dosage,
		string(m.Frequency),
		nonNil(m.Times),
		m.RRule,
		m.Instructions,
		m.StartDate,
		toNullTime(m.EndDate),
		string(m.Status),
		m.CreatedBy,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create medication: %w", err)
	}
	return nil
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage = $3,
			frequency = $4,
			times = $5,
			rrule = $6,
			instructions = $7,
			start_date = $8,
			end_date = $9,
			status = $10,
			updated_at = $11
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		string(m.Frequency),
		nonNil(m.Times),
		m.RRule,
		m.Instructions,
		m.StartDate,
		toNullTime(m.EndDate),
		string(m.Status),
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: update medication: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+medicationColumns+` FROM medications WHERE id = $1`, id)
	m, err := scanMedication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, fmt.Errorf("postgres: get medication: %w", err)
	}
	return m, nil
}

func (r *MedicationsRepo) ListByRecipient(ctx context.Context, recipientID string) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+` FROM medications
		WHERE recipient_id = $1
		ORDER BY created_at ASC
	`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list medications: %w", err)
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan medication: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MedicationsRepo) CreateDoseLog(ctx context.Context, d medications.DoseLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_logs (
			id, medication_id, recipient_id,
			medication_name, dosage,
			taken_at, taken_by_id, taken_by_name, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		d.ID,
		d.MedicationID,
		d.RecipientID,
		d.MedicationName,
		d.Dosage,
		d.TakenAt,
		d.TakenBy.UserID,
		d.TakenBy.Name,
		d.Notes,
	)
	if err != nil {
		return fmt.Errorf("postgres: create dose log: %w", err)
	}
	return nil
}

func (r *MedicationsRepo) ListDoseLogs(ctx context.Context, recipientID string) ([]medications.DoseLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, medication_id, recipient_id,
			medication_name, dosage,
			taken_at, taken_by_id, taken_by_name, notes
		FROM dose_logs
		WHERE recipient_id = $1
		ORDER BY taken_at DESC
	`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list dose logs: %w", err)
	}
	defer rows.Close()

	out := make([]medications.DoseLog, 0)
	for rows.Next() {
		var d medications.DoseLog
		if err := rows.Scan(
			&d.ID,
			&d.MedicationID,
			&d.RecipientID,
			&d.MedicationName,
			&d.Dosage,
			&d.TakenAt,
			&d.TakenBy.UserID,
			&d.TakenBy.Name,
			&d.Notes,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan dose log: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanMedication(s rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var freq, status string
	var times []string
	var endDate sql.NullTime

	if err := s.Scan(
		&m.ID,
		&m.RecipientID,
		&m.Name,
		&m.Dosage,
		&freq,
		textArray(&times),
		&m.RRule,
		&m.Instructions,
		&m.StartDate,
		&endDate,
		&status,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	m.Frequency = medications.Frequency(freq)
	m.Status = medications.Status(status)
	m.Times = nonNil(times)
	m.EndDate = fromNullTime(endDate)
	return m, nil
}
