package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/coreagenda/internal/adapter/presenter"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
)

// User serves the caller's identity
type User struct {
	users  repositories.UserRepository
	authz  *authz.RoleAuthorizer
	logger *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users repositories.UserRepository, authorizer *authz.RoleAuthorizer, logger *zap.Logger) *User {
	return &User{
		users:  users,
		authz:  authorizer,
		logger: logger,
	}
}

// Me handles GET /me
// @Summary      Current user
// @Description  Returns the caller and the capabilities their role grants
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  user.MeResponse
// @Failure      401  {object}  map[string]interface{}  "Not authenticated"
// @Router       /me [get]
func (h *User) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	u, err := h.users.FindByID(c.Request().Context(), actor.UserID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToMeResponse(u, h.authz))
}
