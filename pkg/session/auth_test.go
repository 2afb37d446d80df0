package session_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// failingStore reports a backend fault on every operation.
type failingStore struct{}

var errBoom = errors.Join(session.ErrBackendFailure, errors.New("boom"))

func (failingStore) CreateSession(context.Context, session.CreateSessionParams) (*session.Session, error) {
	return nil, errBoom
}

func (failingStore) GetSession(context.Context, string) (*session.Session, error) {
	return nil, errBoom
}

func (failingStore) DeleteSession(context.Context, string) (*session.Session, error) {
	return nil, errBoom
}

func (failingStore) GetUserBySessionID(context.Context, string) (testUser, error) {
	return testUser{}, errBoom
}

func (failingStore) GetUserByUserID(context.Context, string) (testUser, error) {
	return testUser{}, errBoom
}

func (failingStore) DeleteUserSessions(context.Context, string) (int64, error) {
	return 0, errBoom
}

func newTestManager(store session.Store[testUser]) *session.Manager[testUser] {
	return session.New(store,
		session.WithCookieName[testUser]("test_sid"),
		session.WithDefaultExpiry[testUser](session.MustParseExpiry("1h")),
	)
}

func TestAuth_CreateSession(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore[testUser]()
	manager := newTestManager(store)

	t.Run("sets cookie with the resolved expiry", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/login", nil)
		auth := manager.NewAuth(w, r)

		expiresAt := time.Now().Add(time.Hour)
		sess, err := auth.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "u1",
			ExpiresAt: expiresAt,
		})
		require.NoError(t, err)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "test_sid", cookies[0].Name)
		assert.Equal(t, sess.ID, cookies[0].Value)
		assert.True(t, cookies[0].Secure)
		assert.WithinDuration(t, expiresAt, cookies[0].Expires, time.Second)
	})

	t.Run("fills the default expiry when none is given", func(t *testing.T) {
		w := httptest.NewRecorder()
		auth := manager.NewAuth(w, httptest.NewRequest("POST", "/login", nil))

		sess, err := auth.CreateSession(ctx, session.CreateSessionParams{UserID: "u1"})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Second)
	})

	t.Run("no cookie when the store fails", func(t *testing.T) {
		w := httptest.NewRecorder()
		auth := newTestManager(failingStore{}).NewAuth(w, httptest.NewRequest("POST", "/login", nil))

		_, err := auth.CreateSession(ctx, session.CreateSessionParams{
			UserID:    "u1",
			ExpiresAt: time.Now().Add(time.Hour),
		})
		assert.ErrorIs(t, err, session.ErrBackendFailure)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestAuth_CurrentSessionAndUser(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore[testUser]()
	store.PutUser("u1", testUser{ID: "u1", Email: "u1@example.com"})
	manager := newTestManager(store)

	// Log in once to obtain the cookie.
	login := httptest.NewRecorder()
	auth := manager.NewAuth(login, httptest.NewRequest("POST", "/login", nil))
	created, err := auth.CreateSession(ctx, session.CreateSessionParams{
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/me", nil)
	for _, c := range login.Result().Cookies() {
		r.AddCookie(c)
	}
	auth = manager.NewAuth(httptest.NewRecorder(), r)

	t.Run("current session", func(t *testing.T) {
		sess, err := auth.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, created.ID, sess.ID)
		assert.Equal(t, "u1", sess.UserID)
	})

	t.Run("current user", func(t *testing.T) {
		user, err := auth.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1@example.com", user.Email)
	})

	t.Run("no token fails before any backend call", func(t *testing.T) {
		bare := manager.NewAuth(httptest.NewRecorder(), httptest.NewRequest("GET", "/me", nil))
		assert.Empty(t, bare.Token())

		_, err := bare.CurrentSession(ctx)
		assert.ErrorIs(t, err, session.ErrSessionIDRequired)

		_, err = bare.CurrentUser(ctx)
		assert.ErrorIs(t, err, session.ErrSessionIDRequired)
	})
}

func TestAuth_DeleteCurrentSession(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore[testUser]()
	manager := newTestManager(store)

	login := httptest.NewRecorder()
	created, err := manager.NewAuth(login, httptest.NewRequest("POST", "/login", nil)).
		CreateSession(ctx, session.CreateSessionParams{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range login.Result().Cookies() {
		r.AddCookie(c)
	}

	t.Run("clears cookie on success", func(t *testing.T) {
		w := httptest.NewRecorder()
		deleted, err := manager.NewAuth(w, r).DeleteCurrentSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.True(t, cookies[0].Expires.Before(time.Now()))
	})

	t.Run("no cookie side effect on failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		_, err := manager.NewAuth(w, r).DeleteCurrentSession(ctx)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestAuth_DeleteUserSessions(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore[testUser]()
	manager := newTestManager(store)

	login := httptest.NewRecorder()
	_, err := manager.NewAuth(login, httptest.NewRequest("POST", "/login", nil)).
		CreateSession(ctx, session.CreateSessionParams{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	// A second session for the same user, created out of band.
	_, err = store.CreateSession(ctx, session.CreateSessionParams{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/logout-all", nil)
	for _, c := range login.Result().Cookies() {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	n, err := manager.NewAuth(w, r).DeleteUserSessions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}
