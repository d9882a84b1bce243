package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// Context keys set by the session middleware.
const (
	ContextUsername = "username"
	ContextToken    = "session_token"
)

// Authenticator resolves a session token to a username.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Session rejects requests without a valid session token in header and
// injects the username into the context.
func Session(header string, auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimSpace(c.Request().Header.Get(header))
			if token == "" {
				return domain.ErrUnauthenticated
			}

			username, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(ContextUsername, username)
			c.Set(ContextToken, token)
			return next(c)
		}
	}
}

// OptionalSession injects the username when a valid token is present and lets
// every request through.
func OptionalSession(header string, auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimSpace(c.Request().Header.Get(header))
			if token != "" {
				if username, err := auth.Authenticate(c.Request().Context(), token); err == nil {
					c.Set(ContextUsername, username)
					c.Set(ContextToken, token)
				}
			}
			return next(c)
		}
	}
}
