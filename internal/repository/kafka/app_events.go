package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/event"
)

// AppEvents publishes application events to the events topic, keyed by
// event id.
type AppEvents struct {
	p *Producer
}

func NewAppEvents(p *Producer) *AppEvents { return &AppEvents{p: p} }

var _ event.Publisher = (*AppEvents)(nil)

func (e *AppEvents) Publish(ctx context.Context, ev event.Event) error {
	if !ev.Kind.Valid() {
		return fmt.Errorf("publish %q: %w", ev.Kind, event.ErrUnknownKind)
	}
	return e.p.PublishJSON(ctx, []byte(ev.ID), ev)
}

// EventHandler decodes the message value as an application event.
func EventHandler(handle func(context.Context, event.Event) error) Handler {
	return JSONHandler(func(ctx context.Context, _ []byte, ev *event.Event) error {
		return handle(ctx, *ev)
	})
}

// JSONHandler decodes the message value into a fresh M before calling handle.
func JSONHandler[M any](handle func(context.Context, []byte, *M) error) Handler {
	return func(ctx context.Context, key, value []byte) error {
		var msg M
		if err := json.Unmarshal(value, &msg); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return handle(ctx, key, &msg)
	}
}
