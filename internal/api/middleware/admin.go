// Package middleware adapts the admin predicate in internal/security into
// chi request middleware.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fieldhouse/bracket/internal/security"
)

type contextKey string

const isAdminKey contextKey = "is_admin"

// OptionalAdmin extracts and validates an Authorization: Bearer token if
// present, recording whether the request is authenticated as admin in the
// context. Unlike a hard Auth gate, it never rejects the request itself —
// operations that require admin check IsAdmin(ctx) themselves, since
// report_score accepts admin OR a tournament code as an alternate
// credential.
func OptionalAdmin(tokens *security.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := false

			authHeader := r.Header.Get("Authorization")
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				if _, err := tokens.ValidateAdminToken(parts[1]); err == nil {
					admin = true
				}
			}

			ctx := context.WithValue(r.Context(), isAdminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAdmin reports whether the request context carries a validated admin
// bearer token.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(isAdminKey).(bool)
	return admin
}
