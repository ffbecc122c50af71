package reminder_scheduler

import (
	"context"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/domain/outbox"
	intoutbox "github.com/NordCoder/Upkeep/internal/outbox"
	"github.com/NordCoder/Upkeep/internal/repository/postgres"
	"github.com/NordCoder/Upkeep/internal/services/reminder-scheduler/repo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Usecase struct {
	Schedule repo.Schedule
	Outbox   outbox.Repository
	Tx       postgres.Transactor
	Clock    notification.Clock
}

// Tick picks due maintenances, moves their schedule one interval ahead and
// raises a reminder for each, all in one transaction. It returns the number
// of reminders raised.
func (u *Usecase) Tick(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}

	tr := otel.Tracer("reminder-scheduler.uc")
	ctx, span := tr.Start(ctx, "reminder.tick", trace.WithAttributes(attribute.Int("batch.limit", limit)))
	defer span.End()

	raised := 0
	err := u.Tx.WithTx(ctx, func(ctx context.Context) error {
		due, err := u.Schedule.FetchDue(ctx, limit)
		if err != nil {
			return fmt.Errorf("fetch due: %w", err)
		}
		for _, d := range due {
			ev, err := event.New(event.KindMaintenanceReminderSent, event.MaintenanceReminderSent{
				MaintenanceID: d.Maintenance.ID,
				Machine:       d.Maintenance.MachineName,
				Template:      d.Template.Name,
				DueAt:         d.Maintenance.NextDueAt,
				AssigneeID:    d.Maintenance.AssigneeID,
			}, u.Clock.Now())
			if err != nil {
				return err
			}
			if err := intoutbox.EnqueueEvent(ctx, u.Outbox, ev); err != nil {
				return err
			}
		}
		raised = len(due)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttributes(attribute.Int("batch.raised", raised))
	return raised, nil
}
