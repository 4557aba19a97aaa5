package middleware

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/coreagenda/errors"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/pkg/jwt"
)

const (
	// ActorKey is the echo context key holding the authenticated entities.Actor
	ActorKey = "actor"
	// ClaimsKey is the echo context key holding the raw *jwt.Claims
	ClaimsKey = "claims"
)

// TokenVerifier checks a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// EchoAuth returns an Echo middleware that validates the bearer JWT and sets
// the caller's actor into the Echo context
func EchoAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return unauthenticated(c, errors.ErrUnauthenticated())
			}

			claims, err := tokens.Verify(token)
			if stdErrors.Is(err, jwt.ErrExpiredToken) {
				return unauthenticated(c, errors.ErrTokenExpired())
			}
			if err != nil {
				return unauthenticated(c, errors.ErrInvalidToken())
			}

			role, err := entities.ParseUserRole(claims.Role)
			if err != nil {
				return unauthenticated(c, errors.ErrInvalidToken())
			}

			c.Set(ActorKey, entities.Actor{UserID: claims.UserID, Role: role})
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

// ActorFrom returns the authenticated actor set by EchoAuth
func ActorFrom(c echo.Context) (entities.Actor, bool) {
	actor, ok := c.Get(ActorKey).(entities.Actor)
	return actor, ok
}

// extractToken reads the Authorization header, falling back to the access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func unauthenticated(c echo.Context, appErr errors.AppError) error {
	return c.JSON(http.StatusUnauthorized, map[string]interface{}{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
