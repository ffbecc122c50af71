package outbox

import (
	"context"
	"errors"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/domain/outbox"
	"github.com/NordCoder/Upkeep/internal/obs/retry"
)

// errPermanent marks rows that no retry can fix.
var errPermanent = errors.New("permanent outbox error")

func retryable(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, errPermanent) &&
		!errors.Is(err, event.ErrUnknownKind)
}

// WrapKindHandler retries h under p, skipping retries for permanent errors
// unless p says otherwise.
func WrapKindHandler(h outbox.KindHandler, p retry.Policy) outbox.KindHandler {
	if p.Retryable == nil {
		p.Retryable = retryable
	}
	return func(ctx context.Context, data []byte) error {
		return retry.Do(ctx, func() error { return h(ctx, data) }, p)
	}
}
