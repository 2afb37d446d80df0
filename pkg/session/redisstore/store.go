// Package redisstore implements the session store contract on Redis.
// Sessions are stored as JSON values under "sessions:<id>" with a TTL equal
// to the remaining lifetime, so expiry is enforced by Redis itself.
//
// Expired-read policy: the TTL evicts expired keys, but it is rounded to
// whole seconds and so can outlive the logical expiry instant by a fraction
// of a second. Reads therefore still check the recorded expiry: a session
// past it is deleted and reported as session.ErrSessionExpired, matching the
// other backends. A key already evicted by Redis reads as
// session.ErrSessionNotFound.
//
// Redis holds no user records. User operations require a delegate
// session.UserResolver (typically a mongostore or pgstore); without one they
// fail with session.ErrCapabilityUnavailable. Bulk session deletion needs
// user-indexed sessions and is a capability gap on this backend.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const defaultKeyPrefix = "sessions:"

// Store implements session.Store backed by Redis.
type Store[U any] struct {
	client    redis.UniversalClient
	users     session.UserResolver[U]
	keyPrefix string
	log       *slog.Logger
}

// Option configures the store.
type Option[U any] func(*Store[U])

// WithUserResolver sets the delegate adapter that resolves users. The
// composition is one-directional: this store references the delegate, never
// the reverse.
func WithUserResolver[U any](users session.UserResolver[U]) Option[U] {
	return func(s *Store[U]) {
		s.users = users
	}
}

// WithKeyPrefix overrides the session key prefix.
func WithKeyPrefix[U any](prefix string) Option[U] {
	return func(s *Store[U]) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// WithLogger sets the logger used for backend faults.
func WithLogger[U any](log *slog.Logger) Option[U] {
	return func(s *Store[U]) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Redis-backed session store.
func New[U any](client redis.UniversalClient, opts ...Option[U]) *Store[U] {
	s := &Store[U]{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// sessionRecord is the JSON shape stored under the session key.
type sessionRecord struct {
	UserID    string         `json:"user_id"`
	ExpiresAt time.Time      `json:"expires_at"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func (s *Store[U]) key(sessionID string) string {
	return s.keyPrefix + sessionID
}

// CreateSession stores a new session with a TTL of the remaining whole
// seconds to expiry, floored at one second.
func (s *Store[U]) CreateSession(ctx context.Context, params session.CreateSessionParams) (*session.Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rec := sessionRecord{
		UserID:    params.UserID,
		ExpiresAt: params.ExpiresAt,
		Data:      params.Data,
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, s.backendFailure(ctx, "create session", err)
	}

	ttl := time.Until(params.ExpiresAt).Round(time.Second)
	if ttl < time.Second {
		ttl = time.Second
	}

	id := uuid.NewString()
	if err := s.client.Set(ctx, s.key(id), payload, ttl).Err(); err != nil {
		return nil, s.backendFailure(ctx, "create session", err)
	}

	return &session.Session{
		ID:        id,
		UserID:    rec.UserID,
		ExpiresAt: rec.ExpiresAt,
		Data:      rec.Data,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// GetSession retrieves a session by ID. A key evicted by the TTL reads as
// session.ErrSessionNotFound; a key still present past its recorded expiry
// (the TTL is whole-second granular) is deleted and reported as
// session.ErrSessionExpired.
func (s *Store[U]) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}

	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrSessionNotFound
		}
		return nil, s.backendFailure(ctx, "get session", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, s.backendFailure(ctx, "get session", err)
	}

	sess := &session.Session{
		ID:        sessionID,
		UserID:    rec.UserID,
		ExpiresAt: rec.ExpiresAt,
		Data:      rec.Data,
		CreatedAt: rec.CreatedAt,
	}

	if sess.IsExpired() {
		if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
			s.log.ErrorContext(ctx, "redis session store failure", "op", "delete expired session", "error", err)
		}
		return nil, session.ErrSessionExpired
	}

	return sess, nil
}

// DeleteSession removes a session and returns the deleted record.
func (s *Store[U]) DeleteSession(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.client.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, s.backendFailure(ctx, "delete session", err)
	}
	if deleted == 0 {
		// Key expired between the read and the delete.
		return nil, session.ErrSessionNotFound
	}

	return sess, nil
}

// GetUserBySessionID resolves the session here, then the user through the
// delegate. Session failures propagate unchanged.
func (s *Store[U]) GetUserBySessionID(ctx context.Context, sessionID string) (U, error) {
	var zero U

	if s.users == nil {
		return zero, s.noUserResolver()
	}

	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return zero, err
	}

	return s.users.GetUserByUserID(ctx, sess.UserID)
}

// GetUserByUserID resolves a user through the delegate.
func (s *Store[U]) GetUserByUserID(ctx context.Context, userID string) (U, error) {
	var zero U

	if s.users == nil {
		return zero, s.noUserResolver()
	}

	return s.users.GetUserByUserID(ctx, userID)
}

// DeleteUserSessions is unsupported: session keys are not indexed by user, so
// a bulk delete cannot be performed safely on this backend.
func (s *Store[U]) DeleteUserSessions(ctx context.Context, sessionID string) (int64, error) {
	return 0, fmt.Errorf("redis store cannot delete sessions by user: %w", session.ErrCapabilityUnavailable)
}

func (s *Store[U]) noUserResolver() error {
	return fmt.Errorf("redis store holds no user records and no user resolver is configured: %w", session.ErrCapabilityUnavailable)
}

func (s *Store[U]) backendFailure(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "redis session store failure", "op", op, "error", err)
	return errors.Join(session.ErrBackendFailure, err)
}
