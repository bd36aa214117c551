package middleware

import (
	"context"
	"net/http"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

type contextKey struct{}

var userIDContextKey = contextKey{}

// SessionResolver resolves a session token to a user ID.
// auth.JWTAuthenticator satisfies it.
type SessionResolver interface {
	ResolveSession(token string) (string, error)
}

// RequireSession reads the session cookie, resolves it and injects the user
// ID into the request context. Requests without a valid session get a 401.
func RequireSession(resolver SessionResolver, unauthorized http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w, r)
				return
			}

			userID, err := resolver.ResolveSession(cookie.Value)
			if err != nil {
				unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user ID injected by
// RequireSession. The boolean reports whether one was present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	return userID, ok && userID != ""
}

// ContextWithUserID injects a user ID into a context. Used by tests.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
