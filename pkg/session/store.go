package session

import "context"

// Store is the persistence contract every backend implements. U is the
// caller's user type; the package never inspects it, it only resolves values
// of it by identifier.
//
// The capability set is uniform across backends. A backend that structurally
// cannot perform an operation (user lookup on a cache-only store, bulk delete
// without user-indexed sessions) returns an error wrapping
// ErrCapabilityUnavailable instead of omitting the method, so gaps stay
// observable and testable.
//
// Implementations must convert backend faults to ErrBackendFailure at this
// boundary and never panic across it.
type Store[U any] interface {
	// CreateSession persists a new session with a freshly generated ID.
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)

	// GetSession retrieves a session by ID. An expired session is never
	// returned: backends either delete it eagerly on read or rely on
	// backend-native TTL expiry (each store documents its policy).
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// DeleteSession removes a session and returns the deleted record.
	// Deleting an absent session is a NotFound failure, not a no-op.
	DeleteSession(ctx context.Context, sessionID string) (*Session, error)

	// GetUserBySessionID resolves the session, then its owning user.
	// Session-level failures propagate unchanged.
	GetUserBySessionID(ctx context.Context, sessionID string) (U, error)

	// GetUserByUserID resolves a user directly by identifier.
	GetUserByUserID(ctx context.Context, userID string) (U, error)

	// DeleteUserSessions resolves the owning user of the given session and
	// deletes all of that user's sessions, returning the number removed.
	DeleteUserSessions(ctx context.Context, sessionID string) (int64, error)
}

// UserResolver is the subset of Store needed to look up users. A cache-only
// store borrows user resolution from another adapter through this interface;
// the composition is one-directional, never the reverse.
type UserResolver[U any] interface {
	GetUserByUserID(ctx context.Context, userID string) (U, error)
}
