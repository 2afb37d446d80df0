package session

import (
	"net/http"
	"strings"
	"time"
)

// HeaderTransport carries the session token in an HTTP header. Useful for
// API clients that cannot hold cookies.
type HeaderTransport struct {
	headerName string
	prefix     string
}

// HeaderOption is a functional option for HeaderTransport.
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix sets a custom prefix for the header value.
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// NewHeaderTransport creates a header-based transport. The default value
// prefix is "Bearer ".
func NewHeaderTransport(headerName string, opts ...HeaderOption) *HeaderTransport {
	t := &HeaderTransport{
		headerName: headerName,
		prefix:     "Bearer ",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Token extracts the session token from the header.
func (t *HeaderTransport) Token(r *http.Request) (string, error) {
	value := r.Header.Get(t.headerName)
	if value == "" {
		return "", ErrNoToken
	}
	if t.prefix != "" {
		value = strings.TrimPrefix(value, t.prefix)
	}
	return value, nil
}

// Write sends the token in the response header together with its expiry.
func (t *HeaderTransport) Write(w http.ResponseWriter, token string, expiresAt time.Time) error {
	value := token
	if t.prefix != "" {
		value = t.prefix + token
	}
	w.Header().Set(t.headerName, value)
	if !expiresAt.IsZero() {
		w.Header().Set(t.headerName+"-Expires", expiresAt.Format(time.RFC3339))
	}
	return nil
}

// Clear removes the session headers from the response.
func (t *HeaderTransport) Clear(w http.ResponseWriter) error {
	w.Header().Del(t.headerName)
	w.Header().Del(t.headerName + "-Expires")
	return nil
}
