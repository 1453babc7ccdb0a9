package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client), mr
}

func TestSessionStore_SaveAndRevoke(t *testing.T) {
	sessions, mr := newTestSessions(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, sessions.Save(ctx, userID, "a1", 15*time.Minute, "r1", time.Hour))
	assert.Equal(t, 15*time.Minute, mr.TTL(AccessTokenKey(userID, "a1")))
	assert.Equal(t, time.Hour, mr.TTL(RefreshTokenKey(userID, "r1")))

	active, err := sessions.AccessActive(ctx, userID, "a1")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, sessions.RevokeAccess(ctx, userID, "a1"))
	active, err = sessions.AccessActive(ctx, userID, "a1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestSessionStore_ConsumeRefreshOnce(t *testing.T) {
	sessions, _ := newTestSessions(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, sessions.Save(ctx, userID, "a1", time.Minute, "r1", time.Hour))

	ok, err := sessions.ConsumeRefresh(ctx, userID, "r1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sessions.ConsumeRefresh(ctx, userID, "r1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_ExpiredAccess(t *testing.T) {
	sessions, mr := newTestSessions(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, sessions.Save(ctx, userID, "a1", time.Minute, "r1", time.Hour))

	mr.FastForward(2 * time.Minute)

	active, err := sessions.AccessActive(ctx, userID, "a1")
	require.NoError(t, err)
	assert.False(t, active)
}
