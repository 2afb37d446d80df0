// Package cookie provides a small cookie manager with default attributes and
// functional per-call overrides. It exists so transports can share one
// hardened baseline (Path=/, HttpOnly, SameSite=Lax) instead of repeating
// http.Cookie literals.
package cookie
