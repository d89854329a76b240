package middleware

import (
	"context"
	"net/http"

	"nightloom_server/identity"
	"nightloom_server/lib"
	"nightloom_server/structs"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing user data in request context
type contextKey string

const (
	UserContextKey   contextKey = "user"
	ClaimsContextKey contextKey = "claims"
)

// RequireUser protects routes to only signed-in users. The resolved user is
// placed in the request context for handlers to pick up.
func (mw *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.config.Auth.AccessTokenSecret)
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		user := &identity.User{
			ID:    claims.Sub,
			Email: claims.Email,
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, ClaimsContextKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext extracts the signed-in user from the request context
func GetUserFromContext(ctx context.Context) (*identity.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*identity.User)
	return user, ok
}

// GetClaimsFromContext extracts the token claims from the request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}
