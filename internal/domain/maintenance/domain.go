package maintenance

import "time"

type TaskOptions struct {
	IsMandatory   bool `json:"is_mandatory"`
	PhotoRequired bool `json:"photo_required"`
}

// Task is one checklist entry of a template. Label is unique within the template.
type Task struct {
	Label   string      `json:"label"`
	Options TaskOptions `json:"options"`
}

type Template struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Result is a user-submitted outcome for one task. A nil TaskLabel never
// matches a template task; a nil Result means no value was given.
type Result struct {
	TaskLabel *string  `json:"task_label"`
	Result    any      `json:"result"`
	Photos    []string `json:"photos"`
}

type Maintenance struct {
	ID           int64     `json:"id"`
	TemplateID   int64     `json:"template_id"`
	MachineID    int64     `json:"machine_id"`
	MachineName  string    `json:"machine_name"`
	AssigneeID   int64     `json:"assignee_id"`
	IntervalDays int       `json:"interval_days"`
	NextDueAt    time.Time `json:"next_due_at"`
	Active       bool      `json:"active"`
}

type Submission struct {
	ID            int64     `json:"id"`
	MaintenanceID int64     `json:"maintenance_id"`
	SubmittedBy   int64     `json:"submitted_by"`
	Results       []Result  `json:"results"`
	CreatedAt     time.Time `json:"created_at"`
}
