package session

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Manager is the process-wide binding configuration: one store, one
// transport, and a default expiry. It hands out a fresh Auth per request.
type Manager[U any] struct {
	store         Store[U]
	transport     Transport
	cookies       *cookie.Manager
	cookieName    string
	cookieOptions []cookie.Option
	defaultExpiry Expiry
	log           *slog.Logger
}

// New creates a session manager for the given store. Without an explicit
// transport a cookie transport with the default cookie name is used.
func New[U any](store Store[U], opts ...Option[U]) *Manager[U] {
	if store == nil {
		panic("session: store is required")
	}

	m := &Manager[U]{
		store:         store,
		cookieName:    DefaultCookieName,
		defaultExpiry: ExpiryIn(defaultTTL),
		log:           slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.transport == nil {
		if m.cookies == nil {
			m.cookies = cookie.New()
		}
		m.transport = NewCookieTransport(m.cookies, m.cookieName, m.cookieOptions...)
	}

	return m
}

// NewAuth builds the per-request auth context. The session token is extracted
// from the request exactly once, here. A missing token is not an error at
// this point; session operations on the empty token fail with
// ErrSessionIDRequired before any backend call.
func (m *Manager[U]) NewAuth(w http.ResponseWriter, r *http.Request) *Auth[U] {
	token, err := m.transport.Token(r)
	if err != nil {
		token = ""
	}

	return &Auth[U]{
		store:         m.store,
		transport:     m.transport,
		token:         token,
		w:             w,
		defaultExpiry: m.defaultExpiry,
	}
}

// Store exposes the configured store.
func (m *Manager[U]) Store() Store[U] {
	return m.store
}
