package session

import (
	"context"
	"net/http"
	"time"
)

// Auth is the per-request bundle of session operations bound to one extracted
// token, one store, and one response writer. It is created by the Manager for
// each inbound request and must not be shared across requests.
//
// The token is captured once at construction; a cookie that changes
// mid-request does not affect an existing Auth.
type Auth[U any] struct {
	store         Store[U]
	transport     Transport
	token         string
	w             http.ResponseWriter
	defaultExpiry Expiry
}

// Token returns the session token extracted at construction time. Empty when
// the request carried none.
func (a *Auth[U]) Token() string {
	return a.token
}

// Store exposes the underlying store for advanced use.
func (a *Auth[U]) Store() Store[U] {
	return a.store
}

// CreateSession persists a new session and, only on success, writes the
// session token to the client with the resolved expiry. When params carry no
// expiry the Manager's default is resolved against the current clock.
func (a *Auth[U]) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	if params.ExpiresAt.IsZero() {
		if at, ok := a.defaultExpiry.Resolve(time.Now()); ok {
			params.ExpiresAt = at
		}
	}

	sess, err := a.store.CreateSession(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := a.writeToken(sess.ID, sess.ExpiresAt); err != nil {
		// The session exists but the client never learned its token; drop it
		// so no orphan survives.
		_, _ = a.store.DeleteSession(ctx, sess.ID)
		return nil, err
	}

	return sess, nil
}

// CurrentSession returns the session for the captured token.
func (a *Auth[U]) CurrentSession(ctx context.Context) (*Session, error) {
	return a.store.GetSession(ctx, a.token)
}

// CurrentUser resolves the user owning the captured token's session.
func (a *Auth[U]) CurrentUser(ctx context.Context) (U, error) {
	return a.store.GetUserBySessionID(ctx, a.token)
}

// DeleteCurrentSession deletes the captured token's session and, only on
// success, clears the client-side token.
func (a *Auth[U]) DeleteCurrentSession(ctx context.Context) (*Session, error) {
	sess, err := a.store.DeleteSession(ctx, a.token)
	if err != nil {
		return nil, err
	}
	_ = a.clearToken()
	return sess, nil
}

// DeleteUserSessions deletes every session of the user owning the captured
// token's session and, only on success, clears the client-side token.
func (a *Auth[U]) DeleteUserSessions(ctx context.Context) (int64, error) {
	n, err := a.store.DeleteUserSessions(ctx, a.token)
	if err != nil {
		return 0, err
	}
	_ = a.clearToken()
	return n, nil
}

func (a *Auth[U]) writeToken(token string, expiresAt time.Time) error {
	if a.w == nil || a.transport == nil {
		return nil
	}
	return a.transport.Write(a.w, token, expiresAt)
}

func (a *Auth[U]) clearToken() error {
	if a.w == nil || a.transport == nil {
		return nil
	}
	return a.transport.Clear(a.w)
}
