package repo

import (
	"context"
	"fmt"

	"github.com/NordCoder/Upkeep/internal/domain/maintenance"
)

// Due is a maintenance whose reminder must go out, with its template.
type Due struct {
	Maintenance *maintenance.Maintenance
	Template    *maintenance.Template
}

type Schedule struct{ R maintenance.Repo }

func (a Schedule) FetchDue(ctx context.Context, limit int) ([]Due, error) {
	ms, ts, err := a.R.FetchDue(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(ms) != len(ts) {
		return nil, fmt.Errorf("fetch due: %d maintenances for %d templates", len(ms), len(ts))
	}
	out := make([]Due, 0, len(ms))
	for i := range ms {
		out = append(out, Due{Maintenance: ms[i], Template: ts[i]})
	}
	return out, nil
}
