package notification

type Type string

const (
	TypeTicketCreated           Type = "ticket_created"
	TypeTicketStatusChanged     Type = "ticket_status_changed"
	TypeTicketCommentAdded      Type = "ticket_comment_added"
	TypeInspectionCompleted     Type = "inspection_completed"
	TypeUserCreated             Type = "user_created"
	TypeRoleEdited              Type = "role_edited"
	TypeMachineCreated          Type = "machine_created"
	TypeMachineStatusChanged    Type = "machine_status_changed"
	TypeMaintenanceReminderSent Type = "maintenance_reminder_sent"
)

type TypeInfo struct {
	Key         Type   `json:"key"`
	Description string `json:"description"`
}

type Category struct {
	Name  string     `json:"category"`
	Types []TypeInfo `json:"types"`
}

var taxonomy = []Category{
	{Name: "Tickets", Types: []TypeInfo{
		{TypeTicketCreated, "A new ticket has been created"},
		{TypeTicketStatusChanged, "The status of a ticket has changed"},
		{TypeTicketCommentAdded, "A comment has been added to a ticket"},
	}},
	{Name: "Inspections", Types: []TypeInfo{
		{TypeInspectionCompleted, "An inspection checklist has been completed"},
		{TypeMaintenanceReminderSent, "A scheduled maintenance is due"},
	}},
	{Name: "Users & Roles", Types: []TypeInfo{
		{TypeUserCreated, "A new user account has been created"},
		{TypeRoleEdited, "The permissions of a role have been edited"},
	}},
	{Name: "Machines", Types: []TypeInfo{
		{TypeMachineCreated, "A new machine has been registered"},
		{TypeMachineStatusChanged, "The status of a machine has changed"},
	}},
}

// Taxonomy returns the notification categories in display order. The result
// is a copy and may be modified by the caller.
func Taxonomy() []Category {
	out := make([]Category, len(taxonomy))
	for i, c := range taxonomy {
		types := make([]TypeInfo, len(c.Types))
		copy(types, c.Types)
		out[i] = Category{Name: c.Name, Types: types}
	}
	return out
}

func Lookup(t Type) (category string, info TypeInfo, ok bool) {
	for _, c := range taxonomy {
		for _, ti := range c.Types {
			if ti.Key == t {
				return c.Name, ti, true
			}
		}
	}
	return "", TypeInfo{}, false
}

func (t Type) Known() bool {
	_, _, ok := Lookup(t)
	return ok
}
