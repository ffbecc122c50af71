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

type storedNotification struct {
	ID     int64   `json:"id"`
	Type   string  `json:"type"`
	Title  string  `json:"title"`
	ReadAt *string `json:"read_at"`
}

func waitNotifications(t *testing.T, cfg Cfg, userID int64, want int, timeout time.Duration) []storedNotification {
	t.Helper()
	url := fmt.Sprintf("%s/v1/users/%d/notifications", cfg.AGBaseURL, userID)
	deadline := time.Now().Add(timeout)
	for {
		var resp struct {
			Notifications []storedNotification `json:"notifications"`
		}
		require.NoError(t, json.Unmarshal(HTTPDoJSON(t, "GET", url, nil, 200), &resp))
		if len(resp.Notifications) >= want || time.Now().After(deadline) {
			return resp.Notifications
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func TestNotifier_TicketStatusChanged_ReachesReporterAndSubscribers(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.AGBaseURL+"/healthz", 60*time.Second)
	db := DBOpen(t, cfg.DBDSN)

	suffix := RandID()
	roleID := SeedRole(t, db, fmt.Sprintf("planner-%d", suffix), "ticket_status_changed")
	plain := SeedRole(t, db, fmt.Sprintf("operator-%d", suffix))

	reporter := SeedUser(t, db, plain, "Reporter", fmt.Sprintf("reporter-%d@example.com", suffix))
	planner := SeedUser(t, db, roleID, "Planner", fmt.Sprintf("planner-%d@example.com", suffix))
	changer := SeedUser(t, db, roleID, "Changer", fmt.Sprintf("changer-%d@example.com", suffix))

	HTTPDoJSON(t, "POST", cfg.AGBaseURL+"/v1/events/ticket.status_changed", map[string]any{
		"ticket_id":   suffix,
		"title":       "Hydraulic leak",
		"old_status":  "open",
		"new_status":  "in_progress",
		"reporter_id": reporter,
		"changed_by":  changer,
	}, 202)

	for _, uid := range []int64{reporter, planner} {
		got := waitNotifications(t, cfg, uid, 1, 30*time.Second)
		require.Len(t, got, 1, "user %d", uid)
		assert.Equal(t, "ticket_status_changed", got[0].Type)
		assert.Nil(t, got[0].ReadAt)
	}

	got := waitNotifications(t, cfg, changer, 1, 2*time.Second)
	assert.Empty(t, got, "the user who changed the status is not notified")
}

func TestNotifier_MarkRead(t *testing.T) {
	cfg := LoadCfg()
	WaitHealthz(t, cfg.AGBaseURL+"/healthz", 60*time.Second)
	db := DBOpen(t, cfg.DBDSN)

	suffix := RandID()
	role := SeedRole(t, db, fmt.Sprintf("admin-%d", suffix), "user_created")
	admin := SeedUser(t, db, role, "Admin", fmt.Sprintf("admin-%d@example.com", suffix))
	newbie := SeedUser(t, db, SeedRole(t, db, fmt.Sprintf("guest-%d", suffix)), "Newbie", fmt.Sprintf("newbie-%d@example.com", suffix))

	HTTPDoJSON(t, "POST", cfg.AGBaseURL+"/v1/events/user.created", map[string]any{"user_id": newbie}, 202)

	got := waitNotifications(t, cfg, admin, 1, 30*time.Second)
	require.NotEmpty(t, got)

	HTTPDoJSON(t, "POST", fmt.Sprintf("%s/v1/notifications/%d/read", cfg.AGBaseURL, got[0].ID), nil, 204)
	HTTPDoJSON(t, "POST", fmt.Sprintf("%s/v1/notifications/%d/read", cfg.AGBaseURL, int64(1)<<60), nil, 404)

	after := waitNotifications(t, cfg, admin, 1, time.Second)
	require.NotEmpty(t, after)
	assert.NotNil(t, after[0].ReadAt)
}

func TestReminderScheduler_RaisesDueReminder(t *testing.T) {
	cfg := LoadCfg()
	db := DBOpen(t, cfg.DBDSN)
	events := EventsReader(t, cfg)

	suffix := RandID()
	assignee := SeedUser(t, db, SeedRole(t, db, fmt.Sprintf("tech-%d", suffix)), "Tech", fmt.Sprintf("tech-%d@example.com", suffix))
	due := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	id := SeedMaintenance(t, db, weeklyTasks, assignee, due)

	ev := WaitEvent(t, events, event.KindMaintenanceReminderSent, func(ev event.Event) bool {
		var p event.MaintenanceReminderSent
		return ev.Decode(&p) == nil && p.MaintenanceID == id
	}, 2*time.Minute)
	assert.NotEmpty(t, ev.ID)

	assert.True(t, NextDueAt(t, db, id).After(due.Add(6*24*time.Hour)))
}

func TestReminderScheduler_CatchesUpMissedIntervals(t *testing.T) {
	cfg := LoadCfg()
	db := DBOpen(t, cfg.DBDSN)
	events := EventsReader(t, cfg)

	suffix := RandID()
	assignee := SeedUser(t, db, SeedRole(t, db, fmt.Sprintf("tech-%d", suffix)), "Tech", fmt.Sprintf("tech-%d@example.com", suffix))
	// Three weekly slots missed.
	due := time.Now().Add(-3*7*24*time.Hour - time.Hour).UTC().Truncate(time.Second)
	id := SeedMaintenance(t, db, weeklyTasks, assignee, due)

	ev := WaitEvent(t, events, event.KindMaintenanceReminderSent, func(ev event.Event) bool {
		var p event.MaintenanceReminderSent
		return ev.Decode(&p) == nil && p.MaintenanceID == id
	}, 2*time.Minute)
	var p event.MaintenanceReminderSent
	require.NoError(t, ev.Decode(&p))
	assert.True(t, p.DueAt.Equal(due), "due_at %s, want %s", p.DueAt, due)

	next := NextDueAt(t, db, id)
	assert.True(t, next.After(time.Now()), "next_due_at %s is still in the past", next)
	assert.True(t, next.Equal(due.Add(4*7*24*time.Hour)), "next_due_at %s", next)
}
