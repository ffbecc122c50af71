package reminder_scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	config "github.com/NordCoder/Upkeep/internal/config/reminder-scheduler"
	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/domain/maintenance"
	"github.com/NordCoder/Upkeep/internal/domain/outbox"
	"github.com/NordCoder/Upkeep/internal/services/reminder-scheduler/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	ms        []*maintenance.Maintenance
	ts        []*maintenance.Template
	err       error
	lastLimit int
}

func (f *fakeRepo) GetWithTemplate(context.Context, int64) (*maintenance.Maintenance, *maintenance.Template, error) {
	return nil, nil, errors.New("unused")
}

func (f *fakeRepo) SaveSubmission(context.Context, *maintenance.Submission) error { return nil }

func (f *fakeRepo) FetchDue(_ context.Context, limit int) ([]*maintenance.Maintenance, []*maintenance.Template, error) {
	f.lastLimit = limit
	return f.ms, f.ts, f.err
}

type fakeOutbox struct {
	data [][]byte
	err  error
}

func (f *fakeOutbox) Enqueue(_ context.Context, _ string, _ outbox.Kind, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.data = append(f.data, data)
	return nil
}

func (f *fakeOutbox) PickBatch(context.Context, int, time.Duration) ([]outbox.Message, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSuccess(context.Context, []string) error { return nil }

type inlineTx struct{}

func (inlineTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }

var dueAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestTick(t *testing.T) {
	t.Run("raises one reminder per due maintenance", func(t *testing.T) {
		r := &fakeRepo{
			ms: []*maintenance.Maintenance{
				{ID: 1, MachineName: "Press", AssigneeID: 4, NextDueAt: dueAt},
				{ID: 2, MachineName: "Lathe", AssigneeID: 5, NextDueAt: dueAt},
			},
			ts: []*maintenance.Template{{Name: "Weekly"}, {Name: "Monthly"}},
		}
		ob := &fakeOutbox{}
		uc := &Usecase{Schedule: repo.Schedule{R: r}, Outbox: ob, Tx: inlineTx{}, Clock: fixedClock{}}

		n, err := uc.Tick(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 100, r.lastLimit)

		require.Len(t, ob.data, 2)
		var ev event.Event
		require.NoError(t, json.Unmarshal(ob.data[1], &ev))
		assert.Equal(t, event.KindMaintenanceReminderSent, ev.Kind)

		var p event.MaintenanceReminderSent
		require.NoError(t, ev.Decode(&p))
		assert.Equal(t, event.MaintenanceReminderSent{
			MaintenanceID: 2, Machine: "Lathe", Template: "Monthly", DueAt: dueAt, AssigneeID: 5,
		}, p)
	})

	t.Run("nothing due", func(t *testing.T) {
		uc := &Usecase{Schedule: repo.Schedule{R: &fakeRepo{}}, Outbox: &fakeOutbox{}, Tx: inlineTx{}, Clock: fixedClock{}}
		n, err := uc.Tick(context.Background(), 10)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("errors abort the batch", func(t *testing.T) {
		r := &fakeRepo{ms: []*maintenance.Maintenance{{ID: 1}}, ts: []*maintenance.Template{{}}}
		uc := &Usecase{Schedule: repo.Schedule{R: r}, Outbox: &fakeOutbox{err: errors.New("db down")}, Tx: inlineTx{}, Clock: fixedClock{}}
		n, err := uc.Tick(context.Background(), 10)
		assert.Error(t, err)
		assert.Zero(t, n)

		uc = &Usecase{Schedule: repo.Schedule{R: &fakeRepo{err: errors.New("locked")}}, Outbox: &fakeOutbox{}, Tx: inlineTx{}, Clock: fixedClock{}}
		_, err = uc.Tick(context.Background(), 10)
		assert.Error(t, err)
	})

	t.Run("mismatched repo result", func(t *testing.T) {
		r := &fakeRepo{ms: []*maintenance.Maintenance{{ID: 1}}}
		uc := &Usecase{Schedule: repo.Schedule{R: r}, Outbox: &fakeOutbox{}, Tx: inlineTx{}, Clock: fixedClock{}}
		_, err := uc.Tick(context.Background(), 10)
		assert.Error(t, err)
	})
}

type countingTicker struct{ calls int }

func (c *countingTicker) Tick(context.Context, int) (int, error) {
	c.calls++
	return 1, nil
}

func TestRunner_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	tk := &countingTicker{}
	err := New(zap.NewNop(), tk, config.Sched{Tick: 10 * time.Millisecond, BatchSize: 5}).Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, tk.calls, 2)
}
