package session

import (
	"errors"
	"net/http"
)

// Middleware attaches an auth context to every request. Store failures never
// interrupt request handling here; handlers observe them as error values from
// the auth operations they call.
func (m *Manager[U]) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := m.NewAuth(w, r)
		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), auth)))
	})
}

// RequireSession rejects requests that do not resolve to a valid session.
// Requests that pass get the auth context attached like Middleware does.
func (m *Manager[U]) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := m.NewAuth(w, r)

		if _, err := auth.CurrentSession(r.Context()); err != nil {
			if errors.Is(err, ErrBackendFailure) {
				m.log.ErrorContext(r.Context(), "session lookup failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), auth)))
	})
}
