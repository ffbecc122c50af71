package event

import (
	"context"
	"errors"
)

var ErrUnknownKind = errors.New("unknown event kind")

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}
