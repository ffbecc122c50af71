package notifications

import (
	"context"

	"github.com/NordCoder/Upkeep/internal/domain/notification"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Usecase struct {
	repo  notification.Repo
	clock notification.Clock
}

func NewUsecase(repo notification.Repo, clock notification.Clock) *Usecase {
	return &Usecase{repo: repo, clock: clock}
}

// List returns the newest notifications of a user. limit is clamped to
// [1, MaxLimit]; zero selects DefaultLimit.
func (u *Usecase) List(ctx context.Context, userID int64, limit int) ([]*notification.Stored, error) {
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return u.repo.ListByUser(ctx, userID, limit)
}

// MarkRead is idempotent; the first read time is kept.
func (u *Usecase) MarkRead(ctx context.Context, id int64) error {
	return u.repo.MarkRead(ctx, id, u.clock.Now())
}

func (u *Usecase) Types() []notification.Category {
	return notification.Taxonomy()
}
