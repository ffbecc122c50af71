package user

import "context"

type Repo interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	// ListByNotificationType returns active users whose role subscribes to the
	// given notification type key.
	ListByNotificationType(ctx context.Context, key string) ([]*User, error)
}
