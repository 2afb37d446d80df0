package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/session/redisstore"
)

type testUser struct {
	ID    string
	Email string
}

func setupStore(t *testing.T, opts ...redisstore.Option[testUser]) (*redisstore.Store[testUser], *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redisstore.New[testUser](client, opts...), mr
}

func TestStore_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t)

	t.Run("create then get roundtrip", func(t *testing.T) {
		expiresAt := time.Now().Add(time.Hour)
		created, err := store.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "u1",
			ExpiresAt: expiresAt,
			Data:      map[string]any{"device": "phone"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := store.GetSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "u1", got.UserID)
		assert.WithinDuration(t, expiresAt, got.ExpiresAt, time.Second)

		device, ok := got.GetString("device")
		assert.True(t, ok)
		assert.Equal(t, "phone", device)
	})

	t.Run("key layout and TTL", func(t *testing.T) {
		created, err := store.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "u1",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		key := "sessions:" + created.ID
		require.True(t, mr.Exists(key))
		assert.InDelta(t, time.Hour.Seconds(), mr.TTL(key).Seconds(), 1)
	})

	t.Run("TTL floors at one second", func(t *testing.T) {
		created, err := store.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "u1",
			ExpiresAt: time.Now().Add(200 * time.Millisecond),
		})
		require.NoError(t, err)
		assert.Equal(t, time.Second, mr.TTL("sessions:"+created.ID))
	})

	t.Run("expiry inside the TTL floor is still expiry", func(t *testing.T) {
		// With a sub-second lifetime the TTL floors to one second, so the
		// key outlives the recorded expiry instant. The read must not
		// report the session as valid during that window.
		created, err := store.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "u1",
			ExpiresAt: time.Now().Add(50 * time.Millisecond),
		})
		require.NoError(t, err)

		key := "sessions:" + created.ID
		time.Sleep(100 * time.Millisecond)
		require.True(t, mr.Exists(key))

		_, err = store.GetSession(ctx, created.ID)
		assert.ErrorIs(t, err, session.ErrSessionExpired)
		assert.False(t, mr.Exists(key))
	})

	t.Run("expired key is plain absence", func(t *testing.T) {
		created, err := store.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "u1",
			ExpiresAt: time.Now().Add(time.Minute),
		})
		require.NoError(t, err)

		mr.FastForward(2 * time.Minute)

		_, err = store.GetSession(ctx, created.ID)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("missing id short-circuits", func(t *testing.T) {
		_, err := store.GetSession(ctx, "")
		assert.ErrorIs(t, err, session.ErrSessionIDRequired)
	})

	t.Run("delete twice is success then not found", func(t *testing.T) {
		created, err := store.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "u1",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		deleted, err := store.DeleteSession(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)

		_, err = store.DeleteSession(ctx, created.ID)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestStore_CapabilityGaps(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)

	created, err := store.CreateSession(ctx, session.CreateSessionParams{
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	t.Run("user lookup without a resolver", func(t *testing.T) {
		_, err := store.GetUserBySessionID(ctx, created.ID)
		assert.ErrorIs(t, err, session.ErrCapabilityUnavailable)

		_, err = store.GetUserByUserID(ctx, "u1")
		assert.ErrorIs(t, err, session.ErrCapabilityUnavailable)
	})

	t.Run("bulk delete is always a capability gap", func(t *testing.T) {
		_, err := store.DeleteUserSessions(ctx, created.ID)
		assert.ErrorIs(t, err, session.ErrCapabilityUnavailable)
	})
}

func TestStore_DelegatedUserResolution(t *testing.T) {
	ctx := context.Background()

	users := session.NewMemoryStore[testUser]()
	users.PutUser("u1", testUser{ID: "u1", Email: "u1@example.com"})

	store, _ := setupStore(t, redisstore.WithUserResolver[testUser](users))

	created, err := store.CreateSession(ctx, session.CreateSessionParams{
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	t.Run("resolves user through the delegate", func(t *testing.T) {
		user, err := store.GetUserBySessionID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "u1@example.com", user.Email)

		user, err = store.GetUserByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("session failures propagate unchanged", func(t *testing.T) {
		_, sessErr := store.GetSession(ctx, "missing")
		_, userErr := store.GetUserBySessionID(ctx, "missing")
		assert.Equal(t, sessErr, userErr)
	})

	t.Run("delegate user miss", func(t *testing.T) {
		orphan, err := store.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "ghost",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		_, err = store.GetUserBySessionID(ctx, orphan.ID)
		assert.ErrorIs(t, err, session.ErrUserNotFound)
	})
}

func TestStore_CustomKeyPrefix(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t, redisstore.WithKeyPrefix[testUser]("auth:"))

	created, err := store.CreateSession(ctx, session.CreateSessionParams{
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists("auth:"+created.ID))
}
