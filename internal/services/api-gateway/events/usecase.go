package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/domain/outbox"
	intoutbox "github.com/NordCoder/Upkeep/internal/outbox"
)

var ErrInvalidPayload = errors.New("payload must be a JSON object")

type Usecase struct {
	outbox outbox.Repository
	clock  notification.Clock
}

func NewUsecase(ob outbox.Repository, clock notification.Clock) *Usecase {
	return &Usecase{outbox: ob, clock: clock}
}

// Raise stores an application event in the outbox; the relay publishes it.
func (u *Usecase) Raise(ctx context.Context, kind event.Kind, payload json.RawMessage) (event.Event, error) {
	if !kind.Valid() {
		return event.Event{}, fmt.Errorf("%w: %q", event.ErrUnknownKind, kind)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return event.Event{}, ErrInvalidPayload
	}

	ev, err := event.New(kind, payload, u.clock.Now())
	if err != nil {
		return event.Event{}, err
	}
	// Anything the notifier would reject as malformed is refused here.
	if err := ev.Decode(kind.NewPayload()); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := intoutbox.EnqueueEvent(ctx, u.outbox, ev); err != nil {
		return event.Event{}, err
	}
	return ev, nil
}
