package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/coreagenda/errors"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
)

// RequireCapability only lets through callers whose role holds capability.
// Must run after EchoAuth.
func RequireCapability(authorizer authz.Authorizer, capability authz.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return unauthenticated(c, errors.ErrUnauthenticated())
			}
			if err := authorizer.Require(actor, capability); err != nil {
				appErr := errors.ErrPermissionDenied(string(capability))
				return c.JSON(http.StatusForbidden, map[string]interface{}{
					"code":    appErr.Code,
					"message": appErr.Message,
				})
			}
			return next(c)
		}
	}
}
