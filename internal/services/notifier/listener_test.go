package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testDirectory() *fakeDirectory {
	return &fakeDirectory{
		users: map[int64]notification.Recipient{
			1: {ID: 1, Name: "Ana", Email: "ana@plant.test", Role: "Admin"},
			2: {ID: 2, Name: "Bo", Email: "bo@plant.test", Role: "Technician"},
			3: {ID: 3, Name: "Cy", Email: "cy@plant.test", Role: "Technician"},
		},
		subs: map[notification.Type][]int64{
			notification.TypeTicketStatusChanged:     {1, 2},
			notification.TypeTicketCreated:           {1, 2, 3},
			notification.TypeUserCreated:             {1},
			notification.TypeMaintenanceReminderSent: {1},
		},
	}
}

func mustEvent(t *testing.T, kind event.Kind, payload any) event.Event {
	t.Helper()
	ev, err := event.New(kind, payload, time.Now())
	require.NoError(t, err)
	return ev
}

func ids(rs []notification.Recipient) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestTable_RoutesEveryKind(t *testing.T) {
	table := NewTable(Listeners{Dir: testDirectory(), Out: &recordingNotifier{}}, zap.NewNop())
	for _, k := range event.Kinds() {
		assert.True(t, table.handles(k), "kind %s has no listener", k)
	}
}

func TestTable_Dispatch(t *testing.T) {
	links := Links{Base: "http://app/"}

	t.Run("direct recipient first, actor excluded, deduplicated", func(t *testing.T) {
		out := &recordingNotifier{}
		table := NewTable(Listeners{Dir: testDirectory(), Out: out, Links: links}, zap.NewNop())

		ev := mustEvent(t, event.KindTicketStatusChanged, event.TicketStatusChanged{
			TicketID: 10, Title: "Leak", OldStatus: "open", NewStatus: "closed", ReporterID: 2, ChangedBy: 1,
		})
		require.NoError(t, table.Dispatch(context.Background(), ev))

		require.Len(t, out.sent, 1)
		assert.Equal(t, ev.ID, out.sent[0].EventID)
		assert.Equal(t, []int64{2}, ids(out.sent[0].Recipients))
		n, ok := out.sent[0].N.(TicketStatusChanged)
		require.True(t, ok)
		assert.Equal(t, "http://app/tickets/10", n.Link)
	})

	t.Run("creator does not get own ticket", func(t *testing.T) {
		out := &recordingNotifier{}
		table := NewTable(Listeners{Dir: testDirectory(), Out: out, Links: links}, zap.NewNop())

		ev := mustEvent(t, event.KindTicketCreated, event.TicketCreated{TicketID: 11, Title: "Noise", CreatedBy: 3})
		require.NoError(t, table.Dispatch(context.Background(), ev))

		require.Len(t, out.sent, 1)
		assert.Equal(t, []int64{1, 2}, ids(out.sent[0].Recipients))
	})

	t.Run("assignee receives reminder", func(t *testing.T) {
		out := &recordingNotifier{}
		table := NewTable(Listeners{Dir: testDirectory(), Out: out, Links: links}, zap.NewNop())

		ev := mustEvent(t, event.KindMaintenanceReminderSent, event.MaintenanceReminderSent{
			MaintenanceID: 4, Machine: "Press", AssigneeID: 3, DueAt: time.Now(),
		})
		require.NoError(t, table.Dispatch(context.Background(), ev))

		require.Len(t, out.sent, 1)
		assert.Equal(t, []int64{3, 1}, ids(out.sent[0].Recipients))
	})

	t.Run("user created loads the user", func(t *testing.T) {
		out := &recordingNotifier{}
		table := NewTable(Listeners{Dir: testDirectory(), Out: out, Links: links}, zap.NewNop())

		require.NoError(t, table.Dispatch(context.Background(), mustEvent(t, event.KindUserCreated, event.UserCreated{UserID: 2})))

		require.Len(t, out.sent, 1)
		n := out.sent[0].N.(UserCreated)
		assert.Equal(t, "Bo", n.User.Name)
		assert.Equal(t, []int64{1}, ids(out.sent[0].Recipients))
	})

	t.Run("deactivated user is still described but not addressed", func(t *testing.T) {
		dir := testDirectory()
		dir.inactive = map[int64]bool{2: true}
		out := &recordingNotifier{}
		table := NewTable(Listeners{Dir: dir, Out: out, Links: links}, zap.NewNop())

		require.NoError(t, table.Dispatch(context.Background(), mustEvent(t, event.KindUserCreated, event.UserCreated{UserID: 2})))
		require.Len(t, out.sent, 1)
		assert.Equal(t, "Bo", out.sent[0].N.(UserCreated).User.Name)

		out.sent = nil
		require.NoError(t, table.Dispatch(context.Background(), mustEvent(t, event.KindTicketStatusChanged, event.TicketStatusChanged{TicketID: 7, ReporterID: 2, ChangedBy: 3})))
		require.Len(t, out.sent, 1)
		assert.NotContains(t, ids(out.sent[0].Recipients), int64(2))
	})

	t.Run("missing user is a bad payload", func(t *testing.T) {
		table := NewTable(Listeners{Dir: testDirectory(), Out: &recordingNotifier{}}, zap.NewNop())

		err := table.Dispatch(context.Background(), mustEvent(t, event.KindUserCreated, event.UserCreated{UserID: 99}))
		assert.ErrorIs(t, err, ErrBadPayload)
	})

	t.Run("no recipients sends nothing", func(t *testing.T) {
		out := &recordingNotifier{}
		table := NewTable(Listeners{Dir: testDirectory(), Out: out}, zap.NewNop())

		require.NoError(t, table.Dispatch(context.Background(), mustEvent(t, event.KindMachineCreated, event.MachineCreated{MachineID: 1})))
		assert.Empty(t, out.sent)
	})

	t.Run("undecodable payload", func(t *testing.T) {
		table := NewTable(Listeners{Dir: testDirectory(), Out: &recordingNotifier{}}, zap.NewNop())

		ev := event.Event{ID: "e1", Kind: event.KindTicketCreated, Payload: []byte(`{"ticket_id":"ten"}`)}
		assert.ErrorIs(t, table.Dispatch(context.Background(), ev), ErrBadPayload)
	})

	t.Run("unknown kind is acknowledged", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		out := &recordingNotifier{}
		table := NewTable(Listeners{Dir: testDirectory(), Out: out}, zap.New(core))

		require.NoError(t, table.Dispatch(context.Background(), event.Event{ID: "e2", Kind: "ticket.deleted"}))
		assert.Empty(t, out.sent)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "ticket.deleted", logs.All()[0].ContextMap()["kind"])
	})

	t.Run("directory and sender errors propagate", func(t *testing.T) {
		dir := testDirectory()
		dir.err = errors.New("db down")
		table := NewTable(Listeners{Dir: dir, Out: &recordingNotifier{}}, zap.NewNop())

		err := table.Dispatch(context.Background(), mustEvent(t, event.KindTicketCreated, event.TicketCreated{TicketID: 1}))
		assert.ErrorIs(t, err, dir.err)

		out := &recordingNotifier{err: errors.New("store failed")}
		table = NewTable(Listeners{Dir: testDirectory(), Out: out}, zap.NewNop())
		err = table.Dispatch(context.Background(), mustEvent(t, event.KindTicketCreated, event.TicketCreated{TicketID: 1}))
		assert.ErrorIs(t, err, out.err)
	})
}
