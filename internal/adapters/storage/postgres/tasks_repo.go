package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"carecircle/internal/domain/tasks"
)

type TasksRepo struct {
	db *sql.DB
}

func NewTasksRepo(db *sql.DB) *TasksRepo {
	return &TasksRepo{db: db}
}

const taskColumns = `
	id, recipient_id, title, description, due_at,
	assigned_to_id, assigned_to_name, assigned_by_id, assigned_by_name,
	priority, status, created_at,
	completed_at, completed_by_id, completed_by_name`

func (r *TasksRepo) Create(ctx context.Context, t tasks.Task) error {
	byID, byName := completedBy(t.CompletedBy)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		t.ID,
		t.RecipientID,
		t.Title,
		t.Description,
		t.DueAt,
		t.AssignedTo.UserID,
		t.AssignedTo.Name,
		t.AssignedBy.UserID,
		t.AssignedBy.Name,
		string(t.Priority),
		string(t.Status),
		t.CreatedAt,
		toNullTime(t.CompletedAt),
		byID,
		byName,
	)
	if err != nil {
		return fmt.Errorf("postgres: create task: %w", err)
	}
	return nil
}

func (r *TasksRepo) Update(ctx context.Context, t tasks.Task) error {
	byID, byName := completedBy(t.CompletedBy)
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET
			title = $2,
			description = $3,
			due_at = $4,
			assigned_to_id = $5,
			assigned_to_name = $6,
			priority = $7,
			status = $8,
			completed_at = $9,
			completed_by_id = $10,
			completed_by_name = $11
		WHERE id = $1
	`,
		t.ID,
		t.Title,
		t.Description,
		t.DueAt,
		t.AssignedTo.UserID,
		t.AssignedTo.Name,
		string(t.Priority),
		string(t.Status),
		toNullTime(t.CompletedAt),
		byID,
		byName,
	)
	if err != nil {
		return fmt.Errorf("postgres: update task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func (r *TasksRepo) GetByID(ctx context.Context, id string) (tasks.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return tasks.Task{}, tasks.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tasks.Task{}, tasks.ErrNotFound
		}
		return tasks.Task{}, fmt.Errorf("postgres: get task: %w", err)
	}
	return t, nil
}

func (r *TasksRepo) ListByRecipient(ctx context.Context, recipientID string) ([]tasks.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE recipient_id = $1
		ORDER BY created_at ASC
	`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]tasks.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TasksRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete task: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return tasks.ErrNotFound
	}
	return nil
}

func completedBy(p *tasks.Person) (sql.NullString, sql.NullString) {
	if p == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: p.UserID, Valid: true}, sql.NullString{String: p.Name, Valid: true}
}

func scanTask(s rowScanner) (tasks.Task, error) {
	var t tasks.Task
	var priority, status string
	var completedAt sql.NullTime
	var byID, byName sql.NullString

	if err := s.Scan(
		&t.ID,
		&t.RecipientID,
		&t.Title,
		&t.Description,
		&t.DueAt,
		&t.AssignedTo.UserID,
		&t.AssignedTo.Name,
		&t.AssignedBy.UserID,
		&t.AssignedBy.Name,
		&priority,
		&status,
		&t.CreatedAt,
		&completedAt,
		&byID,
		&byName,
	); err != nil {
		return tasks.Task{}, err
	}

	t.Priority = tasks.Priority(priority)
	t.Status = tasks.Status(status)
	t.CompletedAt = fromNullTime(completedAt)
	if byID.Valid {
		t.CompletedBy = &tasks.Person{UserID: byID.String, Name: byName.String}
	}
	return t, nil
}
