package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	kafkax "github.com/NordCoder/Upkeep/internal/repository/kafka"
	"go.uber.org/zap"
)

type Controller struct {
	Log   *zap.Logger
	Sub   *kafkax.Consumer
	Table *Table
}

// Run consumes application events until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	err := c.Sub.Consume(ctx, kafkax.EventHandler(c.handle))
	if err != nil && !errors.Is(err, context.Canceled) {
		c.Log.Warn("kafka consume", zap.Error(err))
		return err
	}
	return nil
}

func (c *Controller) handle(ctx context.Context, ev event.Event) error {
	err := c.Table.Dispatch(ctx, ev)
	if errors.Is(err, ErrBadPayload) {
		return fmt.Errorf("%w: %v", kafkax.ErrMalformed, err)
	}
	return err
}
