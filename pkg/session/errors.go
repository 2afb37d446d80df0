package session

import "errors"

var (
	// ErrSessionIDRequired indicates an operation was called without a session ID
	ErrSessionIDRequired = errors.New("session.id_required")

	// ErrUserIDRequired indicates a session was created without a user ID
	ErrUserIDRequired = errors.New("session.user_id_required")

	// ErrExpiryRequired indicates a session was created without an expiry instant
	ErrExpiryRequired = errors.New("session.expiry_required")

	// ErrSessionNotFound indicates no session exists for the given ID
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session exists but has passed its expiry
	ErrSessionExpired = errors.New("session.expired")

	// ErrUserNotFound indicates the session's user could not be resolved
	ErrUserNotFound = errors.New("session.user_not_found")

	// ErrCapabilityUnavailable indicates the backend structurally cannot
	// perform the requested operation (e.g. user lookup on a cache-only store)
	ErrCapabilityUnavailable = errors.New("session.capability_unavailable")

	// ErrBackendFailure wraps an underlying storage fault
	ErrBackendFailure = errors.New("session.backend_failure")

	// ErrInvalidDuration indicates a duration string could not be parsed
	ErrInvalidDuration = errors.New("session.invalid_duration")

	// ErrNoToken indicates no session token was found on the request
	ErrNoToken = errors.New("session.no_token")
)
