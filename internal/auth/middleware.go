package auth

import (
	apperrors "asset-service/pkg/errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtService *JWTService
}

func NewMiddleware(jwtService *JWTService) *Middleware {
	return &Middleware{jwtService: jwtService}
}

// RequireJWT verifies the bearer token and stores the caller's opaque
// owner identity in the request context.
func (m *Middleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyOwnerID, claims.Subject)

			return next(c)
		}
	}
}

// GetOwnerID returns the caller identity stored by RequireJWT.
func GetOwnerID(c echo.Context) (string, error) {
	ownerID, ok := c.Get(ContextKeyOwnerID).(string)
	if !ok || ownerID == "" {
		return "", apperrors.Unauthorized(msgMissingOwnerIdentity)
	}
	return ownerID, nil
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}
