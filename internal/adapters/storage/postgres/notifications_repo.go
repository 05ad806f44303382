package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"carecircle/internal/domain/notifications"
)

type NotificationsRepo struct {
	db *sql.DB
}

func NewNotificationsRepo(db *sql.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

const notificationColumns = `id, user_id, recipient_id, type, title, message, created_at, read_at`

func (r *NotificationsRepo) Create(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		n.ID,
		n.UserID,
		n.RecipientID,
		string(n.Type),
		n.Title,
		n.Message,
		n.CreatedAt,
		toNullTime(n.ReadAt),
	)
	if err != nil {
		return fmt.Errorf("postgres: create notification: %w", err)
	}
	return nil
}

// Update solo persiste read_at; el resto es inmutable.
func (r *NotificationsRepo) Update(ctx context.Context, n notifications.Notification) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read_at = $2 WHERE id = $1`,
		n.ID, toNullTime(n.ReadAt))
	if err != nil {
		return fmt.Errorf("postgres: update notification: %w", err)
	}
	cnt, _ := res.RowsAffected()
	if cnt == 0 {
		return notifications.ErrNotFound
	}
	return nil
}

func (r *NotificationsRepo) GetByID(ctx context.Context, id string) (notifications.Notification, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notifications.Notification{}, notifications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notifications.Notification{}, notifications.ErrNotFound
		}
		return notifications.Notification{}, fmt.Errorf("postgres: get notification: %w", err)
	}
	return n, nil
}

func (r *NotificationsRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]notifications.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	if unreadOnly {
		q += ` AND read_at IS NULL`
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanNotification(s rowScanner) (notifications.Notification, error) {
	var n notifications.Notification
	var typ string
	var readAt sql.NullTime
	if err := s.Scan(
		&n.ID,
		&n.UserID,
		&n.RecipientID,
		&typ,
		&n.Title,
		&n.Message,
		&n.CreatedAt,
		&readAt,
	); err != nil {
		return notifications.Notification{}, err
	}
	n.Type = notifications.Type(typ)
	n.ReadAt = fromNullTime(readAt)
	return n, nil
}
