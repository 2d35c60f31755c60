package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pulsefeed/internal/httputil"
	"pulsefeed/internal/model"
	"pulsefeed/internal/service"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserKey is the context key for the authenticated user
	UserKey contextKey = "auth_user"
)

// UserResolver loads the account a verified token refers to. A token whose
// subject no longer exists must not pass the guard.
type UserResolver interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthGuard validates the bearer token on every request and binds the
// resolved identity into the request context. Expired and malformed tokens
// are reported distinctly.
func AuthGuard(auth *service.AuthService, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenString string

			// Expected format: "Bearer <token>"
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenString = parts[1]
				}
			}

			if tokenString == "" {
				httputil.WriteUnauthorized(w, "Missing authentication token")
				return
			}

			userID, err := auth.VerifyToken(tokenString)
			if err != nil {
				if errors.Is(err, service.ErrTokenExpired) {
					httputil.WriteUnauthorized(w, "Token has expired")
					return
				}
				httputil.WriteUnauthorized(w, "Invalid authentication token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, model.ErrUserNotFound) {
					httputil.WriteUnauthorized(w, "Account no longer exists")
					return
				}
				httputil.WriteInternalError(w, "Failed to authenticate request")
				return
			}

			authUser := &model.AuthUser{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
			}
			ctx := context.WithValue(r.Context(), UserKey, authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from the request context.
// Returns nil and false when the request did not pass the auth guard.
func GetUserFromContext(ctx context.Context) (*model.AuthUser, bool) {
	user, ok := ctx.Value(UserKey).(*model.AuthUser)
	return user, ok
}
