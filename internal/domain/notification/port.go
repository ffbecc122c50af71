package notification

import (
	"context"
	"time"
)

type Repo interface {
	Create(ctx context.Context, n *Stored) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Stored, error)
	MarkRead(ctx context.Context, id int64, at time.Time) error
}
