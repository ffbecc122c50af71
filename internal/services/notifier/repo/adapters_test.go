package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NordCoder/Upkeep/internal/domain/notification"
	"github.com/NordCoder/Upkeep/internal/domain/user"
	"github.com/NordCoder/Upkeep/internal/repository/postgres"
)

type fakeUsers struct {
	byID    map[int64]*user.User
	subs    map[string][]*user.User
	queried []string
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) ListByNotificationType(_ context.Context, key string) ([]*user.User, error) {
	f.queried = append(f.queried, key)
	return f.subs[key], nil
}

func users() *fakeUsers {
	ana := &user.User{ID: 1, Name: "Ana", Email: "ana@plant.test", Role: "Admin", Active: true}
	bo := &user.User{ID: 2, Name: "Bo", Email: "bo@plant.test", Role: "Technician", Active: false}
	return &fakeUsers{
		byID: map[int64]*user.User{1: ana, 2: bo},
		subs: map[string][]*user.User{string(notification.TypeTicketCreated): {ana}},
	}
}

func TestDirectory_RecipientsDropsInactive(t *testing.T) {
	d := Directory{R: users()}

	got, err := d.Recipients(context.Background(), []int64{1, 2, 99})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestDirectory_ProfileIgnoresActivity(t *testing.T) {
	d := Directory{R: users()}

	r, ok, err := d.Profile(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bo", r.Name)

	_, ok, err = d.Profile(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectory_SubscribersChecksTaxonomy(t *testing.T) {
	fu := users()
	d := Directory{R: fu}

	got, err := d.Subscribers(context.Background(), notification.TypeTicketCreated)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = d.Subscribers(context.Background(), notification.Type("ticket_exploded"))
	require.Error(t, err)
	assert.Equal(t, []string{string(notification.TypeTicketCreated)}, fu.queried)
}
