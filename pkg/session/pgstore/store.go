// Package pgstore implements the session store contract on PostgreSQL via
// pgx. Sessions live in their own table; users are read from a caller-named
// table and collected into the caller's user type by column name.
//
// Expired-read policy: eager. A session found past its expiry is deleted
// before the read fails with session.ErrSessionExpired.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	defaultSessionTable = "sessions"
	defaultUserTable    = "users"
)

// DB is the query surface the store needs. *pgxpool.Pool satisfies it, as
// does a transaction for callers that want session writes inside one.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements session.Store backed by PostgreSQL.
type Store[U any] struct {
	db           DB
	sessionTable string
	userTable    string
	log          *slog.Logger
}

// Option configures the store.
type Option[U any] func(*Store[U])

// WithSessionTable overrides the sessions table name.
func WithSessionTable[U any](name string) Option[U] {
	return func(s *Store[U]) {
		if name != "" {
			s.sessionTable = name
		}
	}
}

// WithUserTable overrides the users table name.
func WithUserTable[U any](name string) Option[U] {
	return func(s *Store[U]) {
		if name != "" {
			s.userTable = name
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

// New creates a PostgreSQL-backed session store.
func New[U any](db DB, opts ...Option[U]) *Store[U] {
	s := &Store[U]{
		db:           db,
		sessionTable: defaultSessionTable,
		userTable:    defaultUserTable,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[U]) sessionsIdent() string {
	return pgx.Identifier{s.sessionTable}.Sanitize()
}

func (s *Store[U]) usersIdent() string {
	return pgx.Identifier{s.userTable}.Sanitize()
}

// CreateSession inserts a new session row under a generated ID.
func (s *Store[U]) CreateSession(ctx context.Context, params session.CreateSessionParams) (*session.Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sess := &session.Session{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		ExpiresAt: params.ExpiresAt,
		Data:      params.Data,
		CreatedAt: time.Now(),
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, user_id, expires_at, data, created_at) VALUES ($1, $2, $3, $4, $5)`,
		s.sessionsIdent(),
	)
	if _, err := s.db.Exec(ctx, query, sess.ID, sess.UserID, sess.ExpiresAt, sess.Data, sess.CreatedAt); err != nil {
		return nil, s.backendFailure(ctx, "create session", err)
	}

	return sess, nil
}

// GetSession retrieves a session by ID, deleting it when found expired.
func (s *Store[U]) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, expires_at, data, created_at FROM %s WHERE id = $1`,
		s.sessionsIdent(),
	)

	sess, err := s.scanSession(s.db.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, s.backendFailure(ctx, "get session", err)
	}

	if sess.IsExpired() {
		del := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.sessionsIdent())
		if _, err := s.db.Exec(ctx, del, sessionID); err != nil {
			s.log.ErrorContext(ctx, "failed to delete expired session", "session_id", sessionID, "error", err)
		}
		return nil, session.ErrSessionExpired
	}

	return sess, nil
}

// DeleteSession removes a session and returns the deleted row.
func (s *Store[U]) DeleteSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}

	query := fmt.Sprintf(
		`DELETE FROM %s WHERE id = $1 RETURNING id, user_id, expires_at, data, created_at`,
		s.sessionsIdent(),
	)

	sess, err := s.scanSession(s.db.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, s.backendFailure(ctx, "delete session", err)
	}

	return sess, nil
}

// GetUserBySessionID resolves the session, then its owning user. Session
// failures propagate unchanged.
func (s *Store[U]) GetUserBySessionID(ctx context.Context, sessionID string) (U, error) {
	var zero U

	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return zero, err
	}

	return s.GetUserByUserID(ctx, sess.UserID)
}

// GetUserByUserID collects the user row with the given ID into U by column
// name.
func (s *Store[U]) GetUserByUserID(ctx context.Context, userID string) (U, error) {
	var zero U

	if userID == "" {
		return zero, session.ErrUserIDRequired
	}

	query := fmt.Sprintf(`SELECT * FROM %s WHERE id = $1`, s.usersIdent())

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return zero, s.backendFailure(ctx, "get user", err)
	}

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[U])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, session.ErrUserNotFound
		}
		return zero, s.backendFailure(ctx, "get user", err)
	}

	return user, nil
}

// DeleteUserSessions resolves the owning user of the given session and
// deletes all of that user's sessions.
func (s *Store[U]) DeleteUserSessions(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, session.ErrSessionIDRequired
	}

	var userID string
	owner := fmt.Sprintf(`SELECT user_id FROM %s WHERE id = $1`, s.sessionsIdent())
	if err := s.db.QueryRow(ctx, owner, sessionID).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, session.ErrSessionNotFound
		}
		return 0, s.backendFailure(ctx, "delete user sessions", err)
	}

	del := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, s.sessionsIdent())
	tag, err := s.db.Exec(ctx, del, userID)
	if err != nil {
		return 0, s.backendFailure(ctx, "delete user sessions", err)
	}

	return tag.RowsAffected(), nil
}

func (s *Store[U]) scanSession(row pgx.Row) (*session.Session, error) {
	var sess session.Session
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt, &sess.Data, &sess.CreatedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store[U]) backendFailure(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "postgres session store failure", "op", op, "error", err)
	return errors.Join(session.ErrBackendFailure, err)
}
