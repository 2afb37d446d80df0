// Package session provides pluggable session-based authentication: one
// lifecycle contract (create, resolve, expire, invalidate) implemented by
// multiple storage backends and exposed to HTTP handlers through a
// per-request auth context.
//
// The package is storage-agnostic. Any backend that satisfies the Store
// interface plugs in; document-store, key-value cache and relational
// implementations ship in subpackages, and a concurrent in-memory store is
// built in. Session tokens travel through the Transport interface, with
// cookie and header implementations included.
//
// # Architecture
//
// A Manager binds one Store and one Transport for the process. Its middleware
// constructs an Auth per inbound request: the token is extracted once, and
// the Auth exposes the session and user operations bound to it. Token side
// effects (cookie write on create, clear on delete) happen only when the
// underlying store operation succeeds.
//
//	┌────────┐  token   ┌───────────┐
//	│ Client │ ───────► │ Transport │
//	└────────┘          └───────────┘
//	      ▲                   │
//	      │                   ▼
//	┌──────────────────────────────────┐
//	│        Manager / Auth            │
//	└──────────────────────────────────┘
//	      │ lifecycle contract
//	      ▼
//	┌────────┐
//	│ Store  │ (mongostore, redisstore, pgstore, memory)
//	└────────┘
//
// # Usage
//
//	store := mongostore.New[User](db)
//	manager := session.New(store,
//	    session.WithCookieName[User]("session_id"),
//	    session.WithDefaultExpiry[User](session.MustParseExpiry("2d")),
//	)
//
//	mux.Handle("/", manager.Middleware(handler))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    auth := session.MustFromContext[User](r.Context())
//	    user, err := auth.CurrentUser(r.Context())
//	    ...
//	}
//
// # Error Handling
//
// Every operation returns (value, error) with package sentinel errors;
// backend faults never surface as panics or driver-specific error types.
// Callers branch with errors.Is:
//
//   - ErrSessionIDRequired, ErrUserIDRequired — validation, no backend call
//   - ErrSessionNotFound, ErrUserNotFound     — absent records
//   - ErrSessionExpired                        — session past its expiry
//   - ErrCapabilityUnavailable                 — backend cannot perform the op
//   - ErrBackendFailure                        — wrapped storage fault
//
// Partial-capability backends (a cache with no user store) return
// ErrCapabilityUnavailable at call time rather than omitting methods, keeping
// the contract uniform while making gaps observable.
package session
