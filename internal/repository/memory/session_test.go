package memory

import (
	"context"
	"testing"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Create(ctx, identity.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, store.Create(ctx, identity.Session{ID: "stale", ExpiresAt: now.Add(-time.Second)}))

	got, err := store.GetByID(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "live", got.ID)

	purged, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Delete(ctx, "live"))
	_, err = store.GetByID(ctx, "live")
	assert.ErrorIs(t, err, identity.ErrSessionNotFound)
}
