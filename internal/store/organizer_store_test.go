package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/AdamBeresnev/arena-bracket/internal/organizer"
	"github.com/AdamBeresnev/arena-bracket/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizerStore(t *testing.T) {
	database := setupTestDB(t)
	store := NewOrganizerStore(database)
	ctx := context.Background()

	guest, err := store.GetOrganizer(ctx, organizer.GuestID)
	require.NoError(t, err)
	assert.True(t, guest.IsGuest())

	o := &organizer.Organizer{
		ID:         uuid.New(),
		Email:      "host@example.com",
		Username:   "host",
		Provider:   utils.Ptr("github"),
		ProviderID: utils.Ptr("4242"),
	}
	require.NoError(t, store.CreateOrganizer(ctx, o))

	found, err := store.GetOrganizerByProvider(ctx, "github", "4242")
	require.NoError(t, err)
	assert.Equal(t, o.ID, found.ID)
	assert.False(t, found.IsGuest())

	found.Username = "renamed"
	found.AvatarURL = utils.Ptr("https://example.com/a.png")
	require.NoError(t, store.UpdateProfile(ctx, found))

	reloaded, err := store.GetOrganizer(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", reloaded.Username)
	assert.Equal(t, "https://example.com/a.png", *reloaded.AvatarURL)

	_, err = store.GetOrganizerByProvider(ctx, "github", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
