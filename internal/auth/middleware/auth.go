package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"solr-indexer/internal/auth"
)

type AuthMiddleware struct {
	authClient *auth.Client
}

func NewAuthMiddleware(authClient *auth.Client) *AuthMiddleware {
	return &AuthMiddleware{
		authClient: authClient,
	}
}

// RequireServiceAuth guards write endpoints with an HS256 service token
// carried in the X-Service-Token header.
func (m *AuthMiddleware) RequireServiceAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			serviceHeader := c.Request().Header.Get("X-Service-Token")
			if serviceHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Service token required")
			}

			if _, err := m.authClient.ValidateServiceToken(serviceHeader); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid service token")
			}

			return next(c)
		}
	}
}
