package notifier

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/obs"
	"go.uber.org/zap"
)

// ErrBadPayload reports an event whose payload does not decode into the
// shape its kind promises.
var ErrBadPayload = errors.New("bad event payload")

// Directory resolves notification recipients.
type Directory interface {
	// Recipients returns the active users with the given ids, skipping
	// unknown and deactivated ones.
	Recipients(ctx context.Context, ids []int64) ([]notification.Recipient, error)
	// Profile loads one user whatever their state; ok is false when missing.
	Profile(ctx context.Context, id int64) (r notification.Recipient, ok bool, err error)
	// Subscribers returns the users whose role subscribes to t.
	Subscribers(ctx context.Context, t notification.Type) ([]notification.Recipient, error)
}

type Notifier interface {
	Send(ctx context.Context, eventID string, recipients []notification.Recipient, n notification.Notification) error
}

type HandlerFunc func(ctx context.Context, ev event.Event) error

// audience lists the users addressed directly, on top of role subscribers,
// and the users who must not be notified (usually the actor).
type audience struct {
	direct  []int64
	exclude []int64
}

// Table maps every event kind to its listener. It is built once and only
// read afterwards.
type Table struct {
	handlers map[event.Kind]HandlerFunc
	log      *zap.Logger
}

type Listeners struct {
	Dir   Directory
	Out   Notifier
	Links Links
}

func NewTable(l Listeners, log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Table{log: log.With(zap.String("component", "notifier.listener"))}
	t.handlers = map[event.Kind]HandlerFunc{
		event.KindTicketCreated:           listen(l, t.log, l.ticketCreated),
		event.KindTicketStatusChanged:     listen(l, t.log, l.ticketStatusChanged),
		event.KindTicketCommentAdded:      listen(l, t.log, l.ticketCommentAdded),
		event.KindUserCreated:             listen(l, t.log, l.userCreated),
		event.KindRoleEdited:              listen(l, t.log, l.roleEdited),
		event.KindInspectionCompleted:     listen(l, t.log, l.inspectionCompleted),
		event.KindMachineCreated:          listen(l, t.log, l.machineCreated),
		event.KindMachineStatusChanged:    listen(l, t.log, l.machineStatusChanged),
		event.KindMaintenanceReminderSent: listen(l, t.log, l.maintenanceReminder),
	}
	return t
}

// handles reports whether a listener is registered for k.
func (t *Table) handles(k event.Kind) bool {
	_, ok := t.handlers[k]
	return ok
}

// Dispatch runs the listener of ev.Kind. Events of unknown kinds are logged
// and acknowledged.
func (t *Table) Dispatch(ctx context.Context, ev event.Event) error {
	h, ok := t.handlers[ev.Kind]
	if !ok {
		mEvents.WithLabelValues("unknown", "skipped").Inc()
		obs.WithTrace(ctx, t.log).Warn("no listener for event kind",
			zap.String("kind", string(ev.Kind)), zap.String("event_id", ev.ID))
		return nil
	}

	start := time.Now()
	err := h(ctx, ev)
	mHandleLatency.WithLabelValues(string(ev.Kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		mEvents.WithLabelValues(string(ev.Kind), "error").Inc()
		return fmt.Errorf("handle %s %s: %w", ev.Kind, ev.ID, err)
	}
	mEvents.WithLabelValues(string(ev.Kind), "ok").Inc()
	return nil
}

func listen[P any](l Listeners, log *zap.Logger, build func(context.Context, P) (notification.Notification, audience, error)) HandlerFunc {
	return func(ctx context.Context, ev event.Event) error {
		var p P
		if err := ev.Decode(&p); err != nil {
			return fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		n, aud, err := build(ctx, p)
		if err != nil {
			return err
		}

		recipients, err := l.resolve(ctx, n.Type(), aud)
		if err != nil {
			return err
		}
		if len(recipients) == 0 {
			obs.WithTrace(ctx, log).Debug("no recipients", zap.String("kind", string(ev.Kind)))
			return nil
		}
		return l.Out.Send(ctx, ev.ID, recipients, n)
	}
}

func (l Listeners) resolve(ctx context.Context, t notification.Type, aud audience) ([]notification.Recipient, error) {
	direct, err := l.Dir.Recipients(ctx, positive(aud.direct))
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}
	subs, err := l.Dir.Subscribers(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("resolve subscribers of %s: %w", t, err)
	}

	seen := make(map[int64]struct{}, len(direct)+len(subs))
	for _, id := range aud.exclude {
		seen[id] = struct{}{}
	}
	out := make([]notification.Recipient, 0, len(direct)+len(subs))
	for _, r := range slices.Concat(direct, subs) {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out, nil
}

func positive(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	return out
}

func (l Listeners) ticketCreated(_ context.Context, p event.TicketCreated) (notification.Notification, audience, error) {
	return TicketCreated{P: p, Link: l.Links.Ticket(p.TicketID)},
		audience{exclude: []int64{p.CreatedBy}}, nil
}

func (l Listeners) ticketStatusChanged(_ context.Context, p event.TicketStatusChanged) (notification.Notification, audience, error) {
	return TicketStatusChanged{P: p, Link: l.Links.Ticket(p.TicketID)},
		audience{direct: []int64{p.ReporterID}, exclude: []int64{p.ChangedBy}}, nil
}

func (l Listeners) ticketCommentAdded(_ context.Context, p event.TicketCommentAdded) (notification.Notification, audience, error) {
	return TicketCommentAdded{P: p, Link: l.Links.Ticket(p.TicketID)},
		audience{direct: []int64{p.ReporterID}, exclude: []int64{p.AuthorID}}, nil
}

func (l Listeners) userCreated(ctx context.Context, p event.UserCreated) (notification.Notification, audience, error) {
	u, ok, err := l.Dir.Profile(ctx, p.UserID)
	if err != nil {
		return nil, audience{}, fmt.Errorf("load user %d: %w", p.UserID, err)
	}
	if !ok {
		return nil, audience{}, fmt.Errorf("%w: user %d does not exist", ErrBadPayload, p.UserID)
	}
	return UserCreated{User: u, Link: l.Links.User(p.UserID)},
		audience{exclude: []int64{p.UserID}}, nil
}

func (l Listeners) roleEdited(_ context.Context, p event.RoleEdited) (notification.Notification, audience, error) {
	return RoleEdited{P: p, Link: l.Links.Role(p.RoleID)},
		audience{exclude: []int64{p.EditedBy}}, nil
}

func (l Listeners) inspectionCompleted(_ context.Context, p event.InspectionCompleted) (notification.Notification, audience, error) {
	return InspectionCompleted{P: p, Link: l.Links.Maintenance(p.MaintenanceID)},
		audience{exclude: []int64{p.CompletedBy}}, nil
}

func (l Listeners) machineCreated(_ context.Context, p event.MachineCreated) (notification.Notification, audience, error) {
	return MachineCreated{P: p, Link: l.Links.Machine(p.MachineID)}, audience{}, nil
}

func (l Listeners) machineStatusChanged(_ context.Context, p event.MachineStatusChanged) (notification.Notification, audience, error) {
	return MachineStatusChanged{P: p, Link: l.Links.Machine(p.MachineID)}, audience{}, nil
}

func (l Listeners) maintenanceReminder(_ context.Context, p event.MaintenanceReminderSent) (notification.Notification, audience, error) {
	return MaintenanceReminder{P: p, Link: l.Links.Maintenance(p.MaintenanceID)},
		audience{direct: []int64{p.AssigneeID}}, nil
}
