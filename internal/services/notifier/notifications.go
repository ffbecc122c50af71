package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/NordCoder/Upkeep/internal/domain/notification"
)

// Links builds absolute links into the web application.
type Links struct{ Base string }

func (l Links) path(format string, args ...any) string {
	return strings.TrimRight(l.Base, "/") + fmt.Sprintf(format, args...)
}

func (l Links) Ticket(id int64) string      { return l.path("/tickets/%d", id) }
func (l Links) Machine(id int64) string     { return l.path("/machines/%d", id) }
func (l Links) Maintenance(id int64) string { return l.path("/maintenances/%d", id) }
func (l Links) Role(id int64) string        { return l.path("/roles/%d", id) }
func (l Links) User(id int64) string        { return l.path("/users/%d", id) }

func greeting(to notification.Recipient) string {
	if to.Name == "" {
		return "Hello,"
	}
	return "Hello " + to.Name + ","
}

func exportOf(m notification.Message, to notification.Recipient) notification.SharePointMessage {
	return notification.SharePointMessage{Title: m.Title, Message: m.Message, UserEmail: to.Email}
}

type TicketCreated struct {
	P    event.TicketCreated
	Link string
}

var (
	_ notification.Notification = TicketCreated{}
	_ notification.Exportable   = TicketCreated{}
)

func (TicketCreated) Type() notification.Type { return notification.TypeTicketCreated }

func (n TicketCreated) InApp(notification.Recipient) notification.Message {
	msg := fmt.Sprintf("Ticket #%d was opened", n.P.TicketID)
	if n.P.Machine != "" {
		msg += " for " + n.P.Machine
	}
	if n.P.Priority != "" {
		msg += " with " + n.P.Priority + " priority"
	}
	return notification.Message{Title: "New ticket: " + n.P.Title, Message: msg + ".", Link: n.Link}
}

func (n TicketCreated) ToSharePoint(to notification.Recipient) notification.SharePointMessage {
	return exportOf(n.InApp(to), to)
}

type TicketStatusChanged struct {
	P    event.TicketStatusChanged
	Link string
}

var (
	_ notification.Exportable = TicketStatusChanged{}
	_ notification.Mailable   = TicketStatusChanged{}
)

func (TicketStatusChanged) Type() notification.Type { return notification.TypeTicketStatusChanged }

func (n TicketStatusChanged) InApp(notification.Recipient) notification.Message {
	return notification.Message{
		Title:   fmt.Sprintf("Ticket #%d is now %s", n.P.TicketID, n.P.NewStatus),
		Message: fmt.Sprintf("%q moved from %s to %s.", n.P.Title, n.P.OldStatus, n.P.NewStatus),
		Link:    n.Link,
	}
}

func (n TicketStatusChanged) ToSharePoint(to notification.Recipient) notification.SharePointMessage {
	return exportOf(n.InApp(to), to)
}

func (n TicketStatusChanged) ToMail(to notification.Recipient) notification.Mail {
	m := n.InApp(to)
	return notification.Mail{
		Subject: m.Title,
		Body:    fmt.Sprintf("%s\n\n%s\n\nOpen the ticket: %s\n", greeting(to), m.Message, n.Link),
	}
}

type TicketCommentAdded struct {
	P    event.TicketCommentAdded
	Link string
}

var _ notification.Notification = TicketCommentAdded{}

func (TicketCommentAdded) Type() notification.Type { return notification.TypeTicketCommentAdded }

func (n TicketCommentAdded) InApp(notification.Recipient) notification.Message {
	return notification.Message{
		Title:   fmt.Sprintf("%s commented on ticket #%d", nonEmpty(n.P.AuthorName, "Someone"), n.P.TicketID),
		Message: n.P.Excerpt,
		Link:    n.Link,
	}
}

type InspectionCompleted struct {
	P    event.InspectionCompleted
	Link string
}

var _ notification.Exportable = InspectionCompleted{}

func (InspectionCompleted) Type() notification.Type { return notification.TypeInspectionCompleted }

func (n InspectionCompleted) InApp(notification.Recipient) notification.Message {
	return notification.Message{
		Title:   "Inspection completed: " + n.P.Machine,
		Message: fmt.Sprintf("%s was completed with %d task result(s).", nonEmpty(n.P.Template, "The checklist"), n.P.Tasks),
		Link:    n.Link,
	}
}

func (n InspectionCompleted) ToSharePoint(to notification.Recipient) notification.SharePointMessage {
	return exportOf(n.InApp(to), to)
}

type UserCreated struct {
	User notification.Recipient
	Link string
}

var _ notification.Mailable = UserCreated{}

func (UserCreated) Type() notification.Type { return notification.TypeUserCreated }

func (n UserCreated) InApp(notification.Recipient) notification.Message {
	return notification.Message{
		Title:   "New user: " + nonEmpty(n.User.Name, n.User.Email),
		Message: fmt.Sprintf("%s joined with the %s role.", nonEmpty(n.User.Name, n.User.Email), nonEmpty(n.User.Role, "default")),
		Link:    n.Link,
	}
}

func (n UserCreated) ToMail(to notification.Recipient) notification.Mail {
	m := n.InApp(to)
	return notification.Mail{Subject: m.Title, Body: fmt.Sprintf("%s\n\n%s\n\n%s\n", greeting(to), m.Message, n.Link)}
}

type RoleEdited struct {
	P    event.RoleEdited
	Link string
}

var _ notification.Notification = RoleEdited{}

func (RoleEdited) Type() notification.Type { return notification.TypeRoleEdited }

func (n RoleEdited) InApp(notification.Recipient) notification.Message {
	return notification.Message{
		Title:   "Role updated: " + n.P.RoleName,
		Message: fmt.Sprintf("Permissions or notification settings of the %s role changed.", n.P.RoleName),
		Link:    n.Link,
	}
}

type MachineCreated struct {
	P    event.MachineCreated
	Link string
}

var _ notification.Notification = MachineCreated{}

func (MachineCreated) Type() notification.Type { return notification.TypeMachineCreated }

func (n MachineCreated) InApp(notification.Recipient) notification.Message {
	msg := n.P.Name + " was added"
	if n.P.Location != "" {
		msg += " at " + n.P.Location
	}
	return notification.Message{Title: "New machine: " + n.P.Name, Message: msg + ".", Link: n.Link}
}

type MachineStatusChanged struct {
	P    event.MachineStatusChanged
	Link string
}

var _ notification.Exportable = MachineStatusChanged{}

func (MachineStatusChanged) Type() notification.Type { return notification.TypeMachineStatusChanged }

func (n MachineStatusChanged) InApp(notification.Recipient) notification.Message {
	return notification.Message{
		Title:   fmt.Sprintf("%s is now %s", n.P.Name, n.P.NewStatus),
		Message: fmt.Sprintf("Machine status changed from %s to %s.", n.P.OldStatus, n.P.NewStatus),
		Link:    n.Link,
	}
}

func (n MachineStatusChanged) ToSharePoint(to notification.Recipient) notification.SharePointMessage {
	return exportOf(n.InApp(to), to)
}

type MaintenanceReminder struct {
	P    event.MaintenanceReminderSent
	Link string
}

var (
	_ notification.Exportable = MaintenanceReminder{}
	_ notification.Mailable   = MaintenanceReminder{}
)

func (MaintenanceReminder) Type() notification.Type { return notification.TypeMaintenanceReminderSent }

func (n MaintenanceReminder) InApp(notification.Recipient) notification.Message {
	return notification.Message{
		Title:   "Maintenance due: " + n.P.Machine,
		Message: fmt.Sprintf("%s is due on %s.", nonEmpty(n.P.Template, "Scheduled maintenance"), n.P.DueAt.UTC().Format(time.DateOnly)),
		Link:    n.Link,
	}
}

func (n MaintenanceReminder) ToSharePoint(to notification.Recipient) notification.SharePointMessage {
	return exportOf(n.InApp(to), to)
}

func (n MaintenanceReminder) ToMail(to notification.Recipient) notification.Mail {
	m := n.InApp(to)
	return notification.Mail{
		Subject: m.Title,
		Body:    fmt.Sprintf("%s\n\n%s\n\nOpen the checklist: %s\n", greeting(to), m.Message, n.Link),
	}
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
