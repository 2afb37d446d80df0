// Package mongostore implements the session store contract on MongoDB.
// Sessions live in their own collection; users are read from a caller-named
// collection and decoded into the caller's user type.
//
// Expired-read policy: eager. A session found past its expiry is deleted
// before the read fails with session.ErrSessionExpired.
package mongostore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	defaultSessionCollection = "sessions"
	defaultUserCollection    = "users"
)

// Store implements session.Store backed by two MongoDB collections.
type Store[U any] struct {
	sessions *mongo.Collection
	users    *mongo.Collection
	log      *slog.Logger
}

type settings struct {
	sessionCollection string
	userCollection    string
	log               *slog.Logger
}

// Option configures the store.
type Option func(*settings)

// WithSessionCollection overrides the sessions collection name.
func WithSessionCollection(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.sessionCollection = name
		}
	}
}

// WithUserCollection overrides the users collection name.
func WithUserCollection(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.userCollection = name
		}
	}
}

// WithLogger sets the logger used for backend faults.
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a MongoDB-backed session store on the given database.
func New[U any](db *mongo.Database, opts ...Option) *Store[U] {
	cfg := settings{
		sessionCollection: defaultSessionCollection,
		userCollection:    defaultUserCollection,
		log:               slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Store[U]{
		sessions: db.Collection(cfg.sessionCollection),
		users:    db.Collection(cfg.userCollection),
		log:      cfg.log,
	}
}

// sessionDoc is the stored shape of a session record.
type sessionDoc struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"user_id"`
	ExpiresAt time.Time      `bson:"expires_at"`
	Data      map[string]any `bson:"data,omitempty"`
	CreatedAt time.Time      `bson:"created_at"`
}

func (d sessionDoc) toSession() *session.Session {
	return &session.Session{
		ID:        d.ID,
		UserID:    d.UserID,
		ExpiresAt: d.ExpiresAt,
		Data:      d.Data,
		CreatedAt: d.CreatedAt,
	}
}

// CreateSession inserts a new session document under a generated ID.
func (s *Store[U]) CreateSession(ctx context.Context, params session.CreateSessionParams) (*session.Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	doc := sessionDoc{
		ID:        uuid.NewString(),
		UserID:    params.UserID,
		ExpiresAt: params.ExpiresAt,
		Data:      params.Data,
		CreatedAt: time.Now(),
	}

	if _, err := s.sessions.InsertOne(ctx, doc); err != nil {
		return nil, s.backendFailure(ctx, "create session", err)
	}

	return doc.toSession(), nil
}

// GetSession retrieves a session by ID, deleting it when found expired.
func (s *Store[U]) GetSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}

	var doc sessionDoc
	if err := s.sessions.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrSessionNotFound
		}
		return nil, s.backendFailure(ctx, "get session", err)
	}

	sess := doc.toSession()
	if sess.IsExpired() {
		if _, err := s.sessions.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
			s.log.ErrorContext(ctx, "failed to delete expired session", "session_id", sessionID, "error", err)
		}
		return nil, session.ErrSessionExpired
	}

	return sess, nil
}

// DeleteSession removes a session and returns the deleted record.
func (s *Store[U]) DeleteSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionIDRequired
	}

	var doc sessionDoc
	if err := s.sessions.FindOneAndDelete(ctx, bson.M{"_id": sessionID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrSessionNotFound
		}
		return nil, s.backendFailure(ctx, "delete session", err)
	}

	return doc.toSession(), nil
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

// GetUserByUserID decodes the user document with the given ID into U.
func (s *Store[U]) GetUserByUserID(ctx context.Context, userID string) (U, error) {
	var zero U

	if userID == "" {
		return zero, session.ErrUserIDRequired
	}

	var user U
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, session.ErrUserNotFound
		}
		return zero, s.backendFailure(ctx, "get user", err)
	}

	return user, nil
}

// DeleteUserSessions resolves the owning user of the given session and
// deletes all of that user's sessions in one DeleteMany.
func (s *Store[U]) DeleteUserSessions(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, session.ErrSessionIDRequired
	}

	var doc sessionDoc
	if err := s.sessions.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, session.ErrSessionNotFound
		}
		return 0, s.backendFailure(ctx, "delete user sessions", err)
	}

	res, err := s.sessions.DeleteMany(ctx, bson.M{"user_id": doc.UserID})
	if err != nil {
		return 0, s.backendFailure(ctx, "delete user sessions", err)
	}

	return res.DeletedCount, nil
}

// backendFailure logs the raw driver error and re-signals it uniformly so
// callers never need mongo-specific error handling.
func (s *Store[U]) backendFailure(ctx context.Context, op string, err error) error {
	s.log.ErrorContext(ctx, "mongo session store failure", "op", op, "error", err)
	return errors.Join(session.ErrBackendFailure, err)
}
