package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Upkeep/internal/domain/maintenance"
	"github.com/jackc/pgx/v5"
)

var _ maintenance.Repo = (*MaintenanceRepo)(nil)

type MaintenanceRepo struct{ db *DB }

func NewMaintenanceRepo(db *DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

const maintenanceCols = `
m.id, m.template_id, m.machine_id, m.machine_name, COALESCE(m.assignee_id, 0),
m.interval_days, m.next_due_at, m.active,
t.id, t.name, t.tasks`

const (
	qMaintenanceByID = `
SELECT` + maintenanceCols + `
FROM maintenances m
JOIN maintenance_templates t ON t.id = m.template_id
WHERE m.id = $1;`

	qSubmissionInsert = `
INSERT INTO maintenance_results (maintenance_id, submitted_by, results)
VALUES ($1, $2, $3)
RETURNING id, created_at;`

	// Rows are locked for the duration of the caller's transaction so that
	// concurrent schedulers never pick the same maintenance twice.
	// next_due_at moves to the first slot after now, so a schedule missed for
	// several intervals raises a single reminder for its oldest slot.
	qFetchDue = `
WITH due AS (
   SELECT id, next_due_at AS due_at, GREATEST(interval_days, 1) AS step
   FROM maintenances
   WHERE active AND next_due_at <= now()
   ORDER BY next_due_at
   LIMIT $1
   FOR UPDATE SKIP LOCKED
), bumped AS (
   UPDATE maintenances m
   SET next_due_at = due.due_at + make_interval(days =>
       due.step * (floor(extract(epoch FROM now() - due.due_at) / (due.step * 86400))::int + 1))
   FROM due
   WHERE m.id = due.id
   RETURNING m.id, due.due_at
)
SELECT` + maintenanceCols + `, b.due_at
FROM bumped b
JOIN maintenances m ON m.id = b.id
JOIN maintenance_templates t ON t.id = m.template_id
ORDER BY b.due_at;`
)

func (r *MaintenanceRepo) GetWithTemplate(ctx context.Context, id int64) (*maintenance.Maintenance, *maintenance.Template, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	m, t, err := scanMaintenance(r.db.execQueryer(ctx).QueryRow(ctx, qMaintenanceByID, id))
	if err != nil {
		return nil, nil, err
	}
	return m, t, nil
}

func (r *MaintenanceRepo) SaveSubmission(ctx context.Context, s *maintenance.Submission) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	raw, err := json.Marshal(s.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := r.db.execQueryer(ctx).QueryRow(ctx, qSubmissionInsert, s.MaintenanceID, s.SubmittedBy, raw).
		Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("insert submission: %w", mapErr(err))
	}
	return nil
}

// FetchDue reports the due time of every returned maintenance in NextDueAt,
// while the stored schedule has already moved one interval ahead.
func (r *MaintenanceRepo) FetchDue(ctx context.Context, limit int) ([]*maintenance.Maintenance, []*maintenance.Template, error) {
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.execQueryer(ctx).Query(ctx, qFetchDue, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch due: %w", err)
	}
	defer rows.Close()

	var (
		ms []*maintenance.Maintenance
		ts []*maintenance.Template
	)
	for rows.Next() {
		var (
			m      maintenance.Maintenance
			t      maintenance.Template
			tasks  []byte
			bumped time.Time
		)
		if err := rows.Scan(
			&m.ID, &m.TemplateID, &m.MachineID, &m.MachineName, &m.AssigneeID,
			&m.IntervalDays, &bumped, &m.Active,
			&t.ID, &t.Name, &tasks, &m.NextDueAt,
		); err != nil {
			return nil, nil, fmt.Errorf("scan due: %w", err)
		}
		if err := json.Unmarshal(tasks, &t.Tasks); err != nil {
			return nil, nil, fmt.Errorf("decode tasks of template %d: %w", t.ID, err)
		}
		ms = append(ms, &m)
		ts = append(ts, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows: %w", err)
	}
	return ms, ts, nil
}

func scanMaintenance(row pgx.Row) (*maintenance.Maintenance, *maintenance.Template, error) {
	var (
		m     maintenance.Maintenance
		t     maintenance.Template
		tasks []byte
	)
	if err := row.Scan(
		&m.ID, &m.TemplateID, &m.MachineID, &m.MachineName, &m.AssigneeID,
		&m.IntervalDays, &m.NextDueAt, &m.Active,
		&t.ID, &t.Name, &tasks,
	); err != nil {
		if errors.Is(mapErr(err), ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("scan maintenance: %w", err)
	}
	if err := json.Unmarshal(tasks, &t.Tasks); err != nil {
		return nil, nil, fmt.Errorf("decode tasks of template %d: %w", t.ID, err)
	}
	return &m, &t, nil
}
