package session

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// DefaultCookieName is the cookie used when no name is configured.
const DefaultCookieName = "session_id"

// CookieTransport carries the session token in a cookie. The cookie value is
// the session ID, the Expires attribute is the session's expiry instant, and
// the Secure attribute is always set.
type CookieTransport struct {
	cookies *cookie.Manager
	name    string
	options []cookie.Option
}

// NewCookieTransport creates a cookie-based transport. Extra cookie options
// are applied on every write after the transport's own attributes, so callers
// can override Domain, Path, SameSite and the rest.
func NewCookieTransport(cookies *cookie.Manager, name string, opts ...cookie.Option) *CookieTransport {
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieTransport{
		cookies: cookies,
		name:    name,
		options: opts,
	}
}

// Token extracts the session token from the request cookie.
func (t *CookieTransport) Token(r *http.Request) (string, error) {
	token, err := t.cookies.Get(r, t.name)
	if err != nil {
		return "", ErrNoToken
	}
	return token, nil
}

// Write sets the session cookie with the resolved expiry instant.
func (t *CookieTransport) Write(w http.ResponseWriter, token string, expiresAt time.Time) error {
	opts := []cookie.Option{
		cookie.WithSecure(true),
		cookie.WithExpires(expiresAt),
	}
	opts = append(opts, t.options...)

	t.cookies.Set(w, t.name, token, opts...)
	return nil
}

// Clear removes the session cookie by writing an already expired replacement.
func (t *CookieTransport) Clear(w http.ResponseWriter) error {
	t.cookies.Delete(w, t.name)
	return nil
}
