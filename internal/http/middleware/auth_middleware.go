package middleware

import (
	"net/http"
	"strings"

	"noteweaver/internal/domain/entity"
	"noteweaver/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// TokenParser validates a raw bearer token and returns its subject.
type TokenParser interface {
	Parse(raw string) (string, error)
}

// UserLoader resolves the token subject into a user, nil when unknown.
type UserLoader interface {
	LoadUser(raw string) (*entity.User, apierror.ErrorResponse)
}

type AuthMiddlewareConfig struct {
	Tokens TokenParser
	Loader UserLoader
}

// NewAuthMiddleware creates the handler with dependencies injected.
// It resolves the session principal exactly once per request and stores
// it under the "user" context key.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			subject, err := cfg.Tokens.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, apierr := cfg.Loader.LoadUser(subject)
			if apierr != nil {
				return c.JSON(apierr.Code(), apierr)
			}

			if user == nil {
				// User deleted in DB but still has a valid token???
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			if !user.IsActive() {
				return c.JSON(http.StatusForbidden, apierror.NewForbiddenError("Missing access"))
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
