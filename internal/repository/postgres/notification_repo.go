package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ notification.Repo = (*NotificationRepo)(nil)

type NotificationRepo struct{ db *DB }

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const (
	// A redelivered event inserts nothing and returns no row.
	qNotifInsert = `
INSERT INTO notifications (event_id, user_id, type, title, message, link, created_at)
VALUES (NULLIF($1, ''), $2, $3, $4, $5, NULLIF($6, ''), COALESCE($7, now()))
ON CONFLICT (event_id, user_id) DO NOTHING
RETURNING id, created_at;`

	qNotifByUser = `
SELECT id, user_id, type, title, message, COALESCE(link, ''), read_at, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2;`

	qNotifMarkRead = `
UPDATE notifications
SET read_at = COALESCE(read_at, $2)
WHERE id = $1;`
)

func (r *NotificationRepo) Create(ctx context.Context, n *notification.Stored) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	err := r.db.execQueryer(ctx).QueryRow(ctx, qNotifInsert,
		n.EventID,
		n.UserID,
		string(n.Type),
		n.Title,
		n.Message,
		n.Link,
		nullTime(n.CreatedAt),
	).Scan(&n.ID, &n.CreatedAt)
	return createErr(err)
}

// createErr tells a duplicate delivery (no row returned) and a missing user
// (foreign key) apart from other failures.
func createErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notification.ErrAlreadyStored
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
		return fmt.Errorf("insert notification: %w", notification.ErrUnknownRecipient)
	}
	return fmt.Errorf("insert notification: %w", mapErr(err))
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]*notification.Stored, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qNotifByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*notification.Stored, 0, limit)
	for rows.Next() {
		var (
			n  notification.Stored
			tp string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &tp, &n.Title, &n.Message, &n.Link, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = notification.Type(tp)
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id int64, at time.Time) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, qNotifMarkRead, id, at.UTC())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
