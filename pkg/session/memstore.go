package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements the full Store contract in process memory. It backs
// the package's own tests and works as a user-resolution delegate for
// cache-only stores in development setups.
//
// Expired sessions are deleted eagerly on read.
type MemoryStore[U any] struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	users    map[string]U
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore[U any]() *MemoryStore[U] {
	return &MemoryStore[U]{
		sessions: make(map[string]*Session),
		users:    make(map[string]U),
	}
}

// PutUser registers a user so session-to-user resolution has something to
// find. The store never constructs or validates user values itself.
func (m *MemoryStore[U]) PutUser(userID string, user U) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = user
}

// CreateSession stores a new session under a generated ID.
func (m *MemoryStore[U]) CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		ExpiresAt: params.ExpiresAt,
		Data:      params.Data,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess.Clone()

	return sess, nil
}

// GetSession retrieves a session by ID, deleting it when found expired.
func (m *MemoryStore[U]) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}

	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	if sess.IsExpired() {
		m.mu.Lock()
		delete(m.sessions, sessionID)
		m.mu.Unlock()
		return nil, ErrSessionExpired
	}

	return sess.Clone(), nil
}

// DeleteSession removes a session and returns the deleted record.
func (m *MemoryStore[U]) DeleteSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	delete(m.sessions, sessionID)

	return sess.Clone(), nil
}

// GetUserBySessionID resolves the session, then its owning user. Session
// failures propagate unchanged.
func (m *MemoryStore[U]) GetUserBySessionID(ctx context.Context, sessionID string) (U, error) {
	var zero U

	sess, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return zero, err
	}

	return m.GetUserByUserID(ctx, sess.UserID)
}

// GetUserByUserID resolves a user directly by identifier.
func (m *MemoryStore[U]) GetUserByUserID(ctx context.Context, userID string) (U, error) {
	var zero U

	if userID == "" {
		return zero, ErrUserIDRequired
	}

	m.mu.RLock()
	user, ok := m.users[userID]
	m.mu.RUnlock()

	if !ok {
		return zero, ErrUserNotFound
	}
	return user, nil
}

// DeleteUserSessions removes every session of the user owning the given
// session and reports how many were deleted.
func (m *MemoryStore[U]) DeleteUserSessions(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, ErrSessionIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return 0, ErrSessionNotFound
	}

	var deleted int64
	for id, s := range m.sessions {
		if s.UserID == sess.UserID {
			delete(m.sessions, id)
			deleted++
		}
	}

	return deleted, nil
}
