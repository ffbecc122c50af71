package notification

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyStored is returned by Repo.Create when the recipient already
	// has the notification raised by the same event.
	ErrAlreadyStored = errors.New("notification already stored")
	// ErrUnknownRecipient is returned by Repo.Create when the user is gone.
	ErrUnknownRecipient = errors.New("unknown recipient")
)

// Recipient is the notifiable target of a notification.
type Recipient struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Notification is built by a listener for one event and handed to every
// channel. Optional channel formats are exposed through the capability
// interfaces below.
type Notification interface {
	Type() Type
	InApp(to Recipient) Message
}

type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

type SharePointMessage struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	UserEmail string `json:"userEmail"`
}

// Exportable notifications can be forwarded to SharePoint/Teams.
type Exportable interface {
	ToSharePoint(to Recipient) SharePointMessage
}

type Mail struct {
	Subject string
	Body    string
}

// Mailable notifications are also delivered by email.
type Mailable interface {
	ToMail(to Recipient) Mail
}

// Stored is an in-app notification row.
type Stored struct {
	ID int64 `json:"id"`
	// EventID is the application event that raised the notification; a
	// (EventID, UserID) pair is stored at most once.
	EventID   string     `json:"event_id,omitempty"`
	UserID    int64      `json:"user_id"`
	Type      Type       `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SharePointClient delivers a notification to the collaboration tool. Retry
// and transport concerns belong to the implementation.
type SharePointClient interface {
	CreateNotification(ctx context.Context, title, message, recipientEmail string) error
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}
