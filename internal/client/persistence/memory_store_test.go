package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/venuebook/internal/client/models"
	"github.com/dmitrijs2005/venuebook/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTripAndExpiry(t *testing.T) {
	m := NewMemoryStore(time.Hour)
	ctx := context.Background()
	start := time.Now()
	m.now = func() time.Time { return start }

	require.NoError(t, m.Save(ctx, Credentials{Token: "abc", User: &models.UserProfile{ID: 2}}))

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Token)
	assert.EqualValues(t, 2, got.User.ID)

	m.now = func() time.Time { return start.Add(2 * time.Hour) }
	got, err = m.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestMemoryStore_ExpireSingleCookie(t *testing.T) {
	m := NewMemoryStore(0)
	ctx := context.Background()
	require.NoError(t, m.Save(ctx, Credentials{Token: "abc", User: &models.UserProfile{ID: 2}}))

	m.Expire(common.TokenCookieName)

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Token)
	assert.NotNil(t, got.User)

	require.NoError(t, m.Clear(ctx))
	got, err = m.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
