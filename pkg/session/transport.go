package session

import (
	"net/http"
	"time"
)

// Transport defines how the session token travels between client and server.
type Transport interface {
	// Token extracts the session token from the request.
	Token(r *http.Request) (string, error)

	// Write sends the token in the response with the session's absolute
	// expiry instant.
	Write(w http.ResponseWriter, token string, expiresAt time.Time) error

	// Clear removes the token from the client.
	Clear(w http.ResponseWriter) error
}
