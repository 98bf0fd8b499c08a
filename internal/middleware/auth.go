// Package middleware holds the echo middleware shared by every route.
package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/groupledger/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the context key for storing the authenticated user ID.
const UserIDKey contextKey = "user_id"

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// RequireAuth returns a middleware that validates the Bearer token in the
// Authorization header and stores the caller's identity on the request
// context. Requests without a valid token never reach the handler.
func RequireAuth(jwtManager *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return auth.ErrMissingToken
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return auth.ErrInvalidToken
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return err
			}

			ctx := WithUserID(c.Request().Context(), claims.UserID())
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
