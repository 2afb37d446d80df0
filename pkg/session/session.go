package session

import (
	"maps"
	"time"
)

// Session is a time-bounded proof of authentication tied to one user.
// The ID doubles as the opaque token carried between client and server.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	ExpiresAt time.Time      `json:"expires_at"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// CreateSessionParams describes a session to be persisted. ExpiresAt must be
// an already resolved absolute instant (see Expiry). Data is stored verbatim.
type CreateSessionParams struct {
	UserID    string
	ExpiresAt time.Time
	Data      map[string]any
}

// Validate checks required inputs before any backend call is made.
func (p CreateSessionParams) Validate() error {
	if p.UserID == "" {
		return ErrUserIDRequired
	}
	if p.ExpiresAt.IsZero() {
		return ErrExpiryRequired
	}
	return nil
}

// IsExpired returns true if the session has passed its expiry instant.
func (s *Session) IsExpired() bool {
	return s != nil && !time.Now().Before(s.ExpiresAt)
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value from session data. JSON round-trips turn
// numbers into float64, so that representation is accepted too.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data.
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Clone returns a deep copy so stored sessions are never aliased by callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Data != nil {
		cp.Data = make(map[string]any, len(s.Data))
		maps.Copy(cp.Data, s.Data)
	}
	return &cp
}
