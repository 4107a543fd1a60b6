package middleware

import (
	"context"
	"net/http"
	"strings"

	"kiba/internal/domain/user"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const userContextKey contextKey = "user"

// CurrentUserSource exposes the process-wide authenticated user.
// The application session store implements this.
type CurrentUserSource interface {
	Current() (user.User, bool)
	IsAuthenticated() bool
}

// openPaths are reachable without an authenticated user. Everything else
// is gated by the session store.
var openPaths = []string{
	"/api/login",
	"/metrics",
	"/healthz",
}

func isOpenPath(path string) bool {
	for _, p := range openPaths {
		if path == p {
			return true
		}
	}
	// Static assets (the login page among them) stay reachable.
	return !strings.HasPrefix(path, "/api/")
}

// Auth returns middleware that injects the current user into the request
// context and rejects API calls while nobody is logged in.
func Auth(source CurrentUserSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := source.Current(); ok {
				ctx := context.WithValue(r.Context(), userContextKey, u)
				r = r.WithContext(ctx)
			} else if !isOpenPath(r.URL.Path) {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the authenticated user from the request context.
func GetUserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userContextKey).(user.User)
	return u, ok
}

// IsRole checks if the current user carries one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	u, ok := GetUserFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// RequireRole returns middleware that blocks requests from users without
// one of the specified roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsRole(r.Context(), roles...) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
