package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmynk/receipts/internal/auth"
	"github.com/mmynk/receipts/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserKey is the context key for storing the authenticated user.
const UserKey contextKey = "user"

// TokenResolver turns a bearer token into the user it was issued to.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// UserFromContext extracts the authenticated user from the context.
// Returns nil if not found.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// RequireAuth returns a middleware that validates bearer tokens and requires authentication.
// It extracts the token from the Authorization header, resolves it to a user and
// adds the user to the request context.
func RequireAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, auth.ErrMissingToken)
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				unauthorized(w, auth.ErrInvalidToken)
				return
			}

			user, err := resolver.Resolve(r.Context(), strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					unauthorized(w, auth.ErrInvalidToken)
					return
				}
				slog.ErrorContext(r.Context(), "Token resolution failed", "error", err)
				writeDetail(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, err.Error())
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
