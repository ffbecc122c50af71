package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/domain/user"
	"github.com/NordCoder/Upkeep/internal/repository/postgres"
)

// Directory resolves recipients from the user store.
type Directory struct{ R user.Repo }

func toRecipient(u *user.User) notification.Recipient {
	return notification.Recipient{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Recipients returns the active users among ids; missing and deactivated
// users are dropped.
func (d Directory) Recipients(ctx context.Context, ids []int64) ([]notification.Recipient, error) {
	out := make([]notification.Recipient, 0, len(ids))
	for _, id := range ids {
		u, err := d.R.GetByID(ctx, id)
		if errors.Is(err, postgres.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get user %d: %w", id, err)
		}
		if !u.Active {
			continue
		}
		out = append(out, toRecipient(u))
	}
	return out, nil
}

// Profile loads a user regardless of activity, for notifications about them.
func (d Directory) Profile(ctx context.Context, id int64) (notification.Recipient, bool, error) {
	u, err := d.R.GetByID(ctx, id)
	if errors.Is(err, postgres.ErrNotFound) {
		return notification.Recipient{}, false, nil
	}
	if err != nil {
		return notification.Recipient{}, false, fmt.Errorf("get user %d: %w", id, err)
	}
	return toRecipient(u), true, nil
}

// Subscribers resolves role subscriptions by taxonomy key; a type missing
// from the taxonomy has no subscribers to look up.
func (d Directory) Subscribers(ctx context.Context, t notification.Type) ([]notification.Recipient, error) {
	if !t.Known() {
		return nil, fmt.Errorf("notification type %q is not in the taxonomy", t)
	}
	users, err := d.R.ListByNotificationType(ctx, string(t))
	if err != nil {
		return nil, err
	}
	out := make([]notification.Recipient, 0, len(users))
	for _, u := range users {
		out = append(out, toRecipient(u))
	}
	return out, nil
}
