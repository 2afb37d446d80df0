package session

import "context"

type authContextKey struct{}

// WithAuth adds an auth context to the request context.
func WithAuth[U any](ctx context.Context, auth *Auth[U]) context.Context {
	return context.WithValue(ctx, authContextKey{}, auth)
}

// FromContext retrieves the auth context placed by the middleware.
func FromContext[U any](ctx context.Context) (*Auth[U], bool) {
	auth, ok := ctx.Value(authContextKey{}).(*Auth[U])
	return auth, ok
}

// MustFromContext retrieves the auth context or panics. Only for handlers
// that are guaranteed to run behind the middleware.
func MustFromContext[U any](ctx context.Context) *Auth[U] {
	auth, ok := FromContext[U](ctx)
	if !ok {
		panic("session: auth not found in context")
	}
	return auth
}
