package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/NordCoder/Upkeep/internal/domain/notification"
)

type spCall struct {
	Title, Message, Email string
}

type fakeSharePoint struct {
	mu    sync.Mutex
	calls []spCall
	err   error
}

func (f *fakeSharePoint) CreateNotification(_ context.Context, title, message, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, spCall{title, message, email})
	return f.err
}

// fakeStore enforces the (event, user) uniqueness of the notifications table.
type fakeStore struct {
	mu   sync.Mutex
	rows []*notification.Stored
	err  error
	// failOnce fails the next insert for the given user, then forgets it.
	failOnce map[int64]error
}

func (f *fakeStore) Create(_ context.Context, n *notification.Stored) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if err, ok := f.failOnce[n.UserID]; ok {
		delete(f.failOnce, n.UserID)
		return err
	}
	for _, r := range f.rows {
		if n.EventID != "" && r.EventID == n.EventID && r.UserID == n.UserID {
			return notification.ErrAlreadyStored
		}
	}
	n.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, n)
	return nil
}

func (f *fakeStore) rowsFor(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.rows {
		if r.UserID == userID {
			n++
		}
	}
	return n
}

func (f *fakeStore) ListByUser(context.Context, int64, int) ([]*notification.Stored, error) {
	return f.rows, nil
}

func (f *fakeStore) MarkRead(context.Context, int64, time.Time) error { return nil }

type sentMail struct{ To, Subject, Body string }

type fakeMail struct {
	sent []sentMail
	err  error
}

func (f *fakeMail) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeDirectory struct {
	users    map[int64]notification.Recipient
	inactive map[int64]bool
	subs     map[notification.Type][]int64
	err      error
}

func (d *fakeDirectory) Recipients(_ context.Context, ids []int64) ([]notification.Recipient, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []notification.Recipient
	for _, id := range ids {
		if u, ok := d.users[id]; ok && !d.inactive[id] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) Profile(_ context.Context, id int64) (notification.Recipient, bool, error) {
	if d.err != nil {
		return notification.Recipient{}, false, d.err
	}
	u, ok := d.users[id]
	return u, ok, nil
}

func (d *fakeDirectory) Subscribers(_ context.Context, t notification.Type) ([]notification.Recipient, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []notification.Recipient
	for _, id := range d.subs[t] {
		if !d.inactive[id] {
			out = append(out, d.users[id])
		}
	}
	return out, nil
}

type sent struct {
	EventID    string
	Recipients []notification.Recipient
	N          notification.Notification
}

type recordingNotifier struct {
	sent []sent
	err  error
}

func (r *recordingNotifier) Send(_ context.Context, eventID string, recipients []notification.Recipient, n notification.Notification) error {
	r.sent = append(r.sent, sent{eventID, recipients, n})
	return r.err
}

// plain has no optional capability.
type plain struct{}

func (plain) Type() notification.Type { return notification.TypeRoleEdited }

func (plain) InApp(notification.Recipient) notification.Message {
	return notification.Message{Title: "t", Message: "m"}
}
