package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/obs"
	"go.uber.org/zap"
)

const (
	ChannelDatabase = "database"
	ChannelMail     = "mail"
)

// Channel delivers one notification to one recipient.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, to notification.Recipient, n notification.Notification) error
}

// Store persists the in-app copy of a notification raised by event eventID.
// It returns notification.ErrAlreadyStored when the recipient already has it.
type Store interface {
	Name() string
	Store(ctx context.Context, eventID string, to notification.Recipient, n notification.Notification) error
}

// Sender fans a notification out to every recipient over the in-app store
// first and then the optional channels. Only store failures are returned.
//
// The stored row doubles as the delivery record: a recipient whose row
// already exists for the event was served by an earlier attempt and is
// skipped, so redelivered events never mail or export twice.
type Sender struct {
	store    Store
	optional []Channel
	log      *zap.Logger
}

func NewSender(log *zap.Logger, store Store, optional ...Channel) *Sender {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{store: store, optional: optional, log: log.With(zap.String("component", "notifier.sender"))}
}

func (s *Sender) Send(ctx context.Context, eventID string, recipients []notification.Recipient, n notification.Notification) error {
	log := obs.WithTrace(ctx, s.log).With(zap.String("kind", string(n.Type())), zap.String("event_id", eventID))

	for _, to := range recipients {
		err := s.store.Store(ctx, eventID, to, n)
		switch {
		case errors.Is(err, notification.ErrAlreadyStored):
			mDeliveries.WithLabelValues(s.store.Name(), "duplicate").Inc()
			log.Debug("already delivered", zap.Int64("user_id", to.ID))
			continue
		case errors.Is(err, notification.ErrUnknownRecipient):
			mDeliveries.WithLabelValues(s.store.Name(), "skipped").Inc()
			log.Warn("recipient no longer exists", zap.Int64("user_id", to.ID))
			continue
		case err != nil:
			mDeliveries.WithLabelValues(s.store.Name(), "error").Inc()
			return fmt.Errorf("store notification for user %d: %w", to.ID, err)
		}
		mDeliveries.WithLabelValues(s.store.Name(), "ok").Inc()

		for _, ch := range s.optional {
			if err := ch.Deliver(ctx, to, n); err != nil {
				mDeliveries.WithLabelValues(ch.Name(), "error").Inc()
				log.Warn("channel delivery failed",
					zap.String("channel", ch.Name()), zap.Int64("user_id", to.ID), zap.Error(err))
			}
		}
	}
	log.Debug("notification sent", zap.Int("recipients", len(recipients)))
	return nil
}

var _ Store = DatabaseChannel{}

// DatabaseChannel stores the in-app rendering of every notification.
type DatabaseChannel struct {
	Repo  notification.Repo
	Clock notification.Clock
}

func (DatabaseChannel) Name() string { return ChannelDatabase }

func (c DatabaseChannel) Store(ctx context.Context, eventID string, to notification.Recipient, n notification.Notification) error {
	m := n.InApp(to)
	return c.Repo.Create(ctx, &notification.Stored{
		EventID:   eventID,
		UserID:    to.ID,
		Type:      n.Type(),
		Title:     m.Title,
		Message:   m.Message,
		Link:      m.Link,
		CreatedAt: c.Clock.Now().UTC(),
	})
}

// MailChannel emails notifications that implement notification.Mailable and
// ignores the rest.
type MailChannel struct {
	Out notification.EmailSender
}

func (MailChannel) Name() string { return ChannelMail }

func (c MailChannel) Deliver(ctx context.Context, to notification.Recipient, n notification.Notification) error {
	m, ok := n.(notification.Mailable)
	if !ok || to.Email == "" {
		return nil
	}
	mail := m.ToMail(to)
	if err := c.Out.Send(ctx, to.Email, mail.Subject, mail.Body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	mDeliveries.WithLabelValues(ChannelMail, "ok").Inc()
	return nil
}
