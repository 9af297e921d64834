package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	AuthenticatedUserContextKey = ContextKey("authenticatedUser")
)

// AuthenticatedUser is the session principal taken from a verified token.
type AuthenticatedUser struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Email  string
	Role   string
}

// Claims is the session token payload issued by the login service.
type Claims struct {
	UserID string `json:"userId"`
	OrgID  string `json:"orgId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// AuthMiddleware verifies an HS256 bearer token and stores the AuthenticatedUser in the request context.
func AuthMiddleware(jwtSecret string, logger *slog.Logger) func(next http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenString) == "" {
				logger.WarnContext(r.Context(), "Bearer token missing")
				unauthorized(w, "No token provided")
				return
			}

			if len(secret) == 0 {
				logger.ErrorContext(r.Context(), "JWT secret not configured")
				unauthorized(w, "Invalid token")
				return
			}

			var claims Claims
			_, err := parser.ParseWithClaims(strings.TrimSpace(tokenString), &claims, func(*jwt.Token) (any, error) {
				return secret, nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "Token expired")
					return
				}
				logger.WarnContext(r.Context(), "Token validation failed", "error", err)
				unauthorized(w, "Invalid token")
				return
			}

			userID, errUser := uuid.Parse(claims.UserID)
			orgID, errOrg := uuid.Parse(claims.OrgID)
			if errUser != nil || errOrg != nil {
				logger.WarnContext(r.Context(), "Token carries malformed identifiers", "user_id", claims.UserID, "org_id", claims.OrgID)
				unauthorized(w, "Invalid token")
				return
			}

			authUser := AuthenticatedUser{
				UserID: userID,
				OrgID:  orgID,
				Email:  claims.Email,
				Role:   claims.Role,
			}
			ctx := context.WithValue(r.Context(), AuthenticatedUserContextKey, authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user stored by AuthMiddleware.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	u, ok := ctx.Value(AuthenticatedUserContextKey).(AuthenticatedUser)
	return u, ok
}

// WithUser returns a context carrying u. Used by tests and internal callers.
func WithUser(ctx context.Context, u AuthenticatedUser) context.Context {
	return context.WithValue(ctx, AuthenticatedUserContextKey, u)
}
