package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// defaultTTL applies when neither the manager configuration nor the create
// call supplies an expiry.
const defaultTTL = 24 * time.Hour

// Option is a functional option for configuring the Manager.
type Option[U any] func(*Manager[U])

// WithTransport sets a custom token transport, replacing the default cookie
// transport.
func WithTransport[U any](transport Transport) Option[U] {
	return func(m *Manager[U]) {
		m.transport = transport
	}
}

// WithCookieName sets the session cookie name for the default transport.
func WithCookieName[U any](name string) Option[U] {
	return func(m *Manager[U]) {
		m.cookieName = name
	}
}

// WithCookieManager sets the cookie manager and extra cookie attributes used
// by the default cookie transport.
func WithCookieManager[U any](cookies *cookie.Manager, opts ...cookie.Option) Option[U] {
	return func(m *Manager[U]) {
		m.cookies = cookies
		m.cookieOptions = opts
	}
}

// WithDefaultExpiry sets the expiry applied to sessions created without one.
// Resolved once per create call, against the clock at that moment.
func WithDefaultExpiry[U any](expiry Expiry) Option[U] {
	return func(m *Manager[U]) {
		m.defaultExpiry = expiry
	}
}

// WithLogger sets the logger used by the middleware.
func WithLogger[U any](log *slog.Logger) Option[U] {
	return func(m *Manager[U]) {
		if log != nil {
			m.log = log
		}
	}
}
