package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const (
	qUserByID = `
SELECT u.id, u.name, u.email, COALESCE(r.name, ''), u.is_active, u.created_at
FROM users u
LEFT JOIN roles r ON r.id = u.role_id
WHERE u.id = $1;`

	qUsersByNotificationType = `
SELECT u.id, u.name, u.email, r.name, u.is_active, u.created_at
FROM users u
JOIN roles r ON r.id = u.role_id
JOIN role_notification_types rnt ON rnt.role_id = r.id
WHERE rnt.type_key = $1 AND u.is_active = TRUE
ORDER BY u.id;`
)

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByID, id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ListByNotificationType(ctx context.Context, key string) ([]*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qUsersByNotificationType, key)
	if err != nil {
		return nil, fmt.Errorf("query subscribed users: %w", err)
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		var u user.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanUser(row pgx.Row, out *user.User) error {
	if err := row.Scan(&out.ID, &out.Name, &out.Email, &out.Role, &out.Active, &out.CreatedAt); err != nil {
		if errors.Is(mapErr(err), ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("scan user: %w", err)
	}
	return nil
}
