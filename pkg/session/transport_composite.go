package session

import (
	"net/http"
	"time"
)

// CompositeTransport tries multiple transports in order for reads and fans
// writes out to all of them.
type CompositeTransport struct {
	transports []Transport
}

// NewCompositeTransport creates a composite transport.
func NewCompositeTransport(transports ...Transport) *CompositeTransport {
	return &CompositeTransport{transports: transports}
}

// Token returns the token from the first transport that yields one.
func (t *CompositeTransport) Token(r *http.Request) (string, error) {
	for _, transport := range t.transports {
		token, err := transport.Token(r)
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrNoToken
}

// Write sends the token via all configured transports.
func (t *CompositeTransport) Write(w http.ResponseWriter, token string, expiresAt time.Time) error {
	var lastErr error
	for _, transport := range t.transports {
		if err := transport.Write(w, token, expiresAt); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Clear removes the token from all configured transports.
func (t *CompositeTransport) Clear(w http.ResponseWriter) error {
	var lastErr error
	for _, transport := range t.transports {
		if err := transport.Clear(w); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
