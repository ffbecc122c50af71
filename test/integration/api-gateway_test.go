//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/NordCoder/Upkeep/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weeklyTasks = `[
  {"label": "Oil level", "options": {"is_mandatory": true, "photo_required": false}},
  {"label": "Belt wear", "options": {"is_mandatory": true, "photo_required": true}},
  {"label": "Notes", "options": {"is_mandatory": false, "photo_required": false}}
]`

func TestMaintenanceResults_Rejected(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.AGBaseURL+"/healthz", 60*time.Second)
	db := DBOpen(t, cfg.DBDSN)

	id := SeedMaintenance(t, db, weeklyTasks, 0, time.Now().Add(24*time.Hour))

	body := HTTPDoJSON(t, "POST", fmt.Sprintf("%s/v1/maintenances/%d/results", cfg.AGBaseURL, id), map[string]any{
		"submitted_by": 1,
		"results": []map[string]any{
			{"task_label": "Oil level", "result": nil, "photos": []string{}},
			{"task_label": "Belt wear", "result": "ok", "photos": []string{}},
			{"task_label": "Unknown", "result": nil},
		},
	}, 422)

	var resp struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "The given data was invalid.", resp.Message)
	assert.Equal(t, map[string][]string{
		"results.0.result": {`A result is required for the mandatory task: "Oil level".`},
		"results.1.photos": {`A photo is required for the mandatory task: "Belt wear".`},
	}, resp.Errors)
	assert.Zero(t, CountResults(t, db, id))
}

func TestMaintenanceResults_AcceptedRaisesInspection(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.AGBaseURL+"/healthz", 60*time.Second)
	db := DBOpen(t, cfg.DBDSN)
	events := EventsReader(t, cfg)

	id := SeedMaintenance(t, db, weeklyTasks, 0, time.Now().Add(24*time.Hour))

	HTTPDoJSON(t, "POST", fmt.Sprintf("%s/v1/maintenances/%d/results", cfg.AGBaseURL, id), map[string]any{
		"submitted_by": 3,
		"results": []map[string]any{
			{"task_label": "Oil level", "result": true},
			{"task_label": "Belt wear", "result": "ok", "photos": []string{"belt.jpg"}},
		},
	}, 201)
	assert.Equal(t, 1, CountResults(t, db, id))

	ev := WaitEvent(t, events, event.KindInspectionCompleted, func(ev event.Event) bool {
		var p event.InspectionCompleted
		return ev.Decode(&p) == nil && p.MaintenanceID == id
	}, 30*time.Second)

	var p event.InspectionCompleted
	require.NoError(t, ev.Decode(&p))
	assert.Equal(t, int64(3), p.CompletedBy)
	assert.Equal(t, "Press 7", p.Machine)
}

func TestEvents_UnknownKind(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.AGBaseURL+"/healthz", 60*time.Second)
	HTTPDoJSON(t, "POST", cfg.AGBaseURL+"/v1/events/ticket.exploded", map[string]any{"ticket_id": 1}, 404)
}

func TestNotificationTypes(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.AGBaseURL+"/healthz", 60*time.Second)

	body := HTTPDoJSON(t, "GET", cfg.AGBaseURL+"/v1/notification-types", nil, 200)
	var resp struct {
		Categories []struct {
			Name string `json:"category"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Categories)
	assert.Equal(t, "Tickets", resp.Categories[0].Name)
}
