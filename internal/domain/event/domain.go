package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindTicketCreated           Kind = "ticket.created"
	KindTicketStatusChanged     Kind = "ticket.status_changed"
	KindTicketCommentAdded      Kind = "ticket.comment_added"
	KindUserCreated             Kind = "user.created"
	KindRoleEdited              Kind = "role.edited"
	KindInspectionCompleted     Kind = "inspection.completed"
	KindMachineCreated          Kind = "machine.created"
	KindMachineStatusChanged    Kind = "machine.status_changed"
	KindMaintenanceReminderSent Kind = "maintenance.reminder_sent"
)

var kinds = []Kind{
	KindTicketCreated,
	KindTicketStatusChanged,
	KindTicketCommentAdded,
	KindUserCreated,
	KindRoleEdited,
	KindInspectionCompleted,
	KindMachineCreated,
	KindMachineStatusChanged,
	KindMaintenanceReminderSent,
}

// Kinds lists every application event kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

func (k Kind) Valid() bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is the envelope carried on the bus. Payload holds one of the
// payload structs below, JSON encoded.
type Event struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func New(kind Kind, payload any, at time.Time) (Event, error) {
	if !kind.Valid() {
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	var raw json.RawMessage
	switch p := payload.(type) {
	case json.RawMessage:
		raw = p
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s payload: %w", kind, err)
		}
		raw = b
	}
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		OccurredAt: at.UTC(),
		Payload:    raw,
	}, nil
}

func (e Event) Decode(dst any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s: empty payload", e.Kind)
	}
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Kind, err)
	}
	return nil
}

type TicketCreated struct {
	TicketID  int64  `json:"ticket_id"`
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	Machine   string `json:"machine"`
	CreatedBy int64  `json:"created_by"`
}

type TicketStatusChanged struct {
	TicketID   int64  `json:"ticket_id"`
	Title      string `json:"title"`
	OldStatus  string `json:"old_status"`
	NewStatus  string `json:"new_status"`
	ReporterID int64  `json:"reporter_id"`
	ChangedBy  int64  `json:"changed_by"`
}

type TicketCommentAdded struct {
	TicketID   int64  `json:"ticket_id"`
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	ReporterID int64  `json:"reporter_id"`
}

type UserCreated struct {
	UserID int64 `json:"user_id"`
}

type RoleEdited struct {
	RoleID   int64  `json:"role_id"`
	RoleName string `json:"role_name"`
	EditedBy int64  `json:"edited_by"`
}

type InspectionCompleted struct {
	MaintenanceID int64  `json:"maintenance_id"`
	SubmissionID  int64  `json:"submission_id"`
	Machine       string `json:"machine"`
	Template      string `json:"template"`
	CompletedBy   int64  `json:"completed_by"`
	Tasks         int    `json:"tasks"`
}

type MachineCreated struct {
	MachineID int64  `json:"machine_id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
}

type MachineStatusChanged struct {
	MachineID int64  `json:"machine_id"`
	Name      string `json:"name"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

type MaintenanceReminderSent struct {
	MaintenanceID int64     `json:"maintenance_id"`
	Machine       string    `json:"machine"`
	Template      string    `json:"template"`
	DueAt         time.Time `json:"due_at"`
	AssigneeID    int64     `json:"assignee_id"`
}

// NewPayload returns a pointer to a zero payload struct for k, or nil when k
// is unknown.
func (k Kind) NewPayload() any {
	switch k {
	case KindTicketCreated:
		return &TicketCreated{}
	case KindTicketStatusChanged:
		return &TicketStatusChanged{}
	case KindTicketCommentAdded:
		return &TicketCommentAdded{}
	case KindUserCreated:
		return &UserCreated{}
	case KindRoleEdited:
		return &RoleEdited{}
	case KindInspectionCompleted:
		return &InspectionCompleted{}
	case KindMachineCreated:
		return &MachineCreated{}
	case KindMachineStatusChanged:
		return &MachineStatusChanged{}
	case KindMaintenanceReminderSent:
		return &MaintenanceReminderSent{}
	}
	return nil
}
