package presenter

import (
	userDTO "github.com/johnquangdev/coreagenda/internal/adapter/dto/user"
	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/usecase/authz"
)

// ToUserResponse converts a User entity to UserResponse DTO
func ToUserResponse(u *entities.User) *userDTO.UserResponse {
	if u == nil {
		return nil
	}

	return &userDTO.UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ToMeResponse lists the capabilities the user's role is granted
func ToMeResponse(u *entities.User, a *authz.RoleAuthorizer) *userDTO.MeResponse {
	caps := []string{}
	if u != nil && a != nil {
		for _, c := range authz.AllCapabilities() {
			if a.Can(u.Role, c) {
				caps = append(caps, string(c))
			}
		}
	}
	return &userDTO.MeResponse{
		User:         ToUserResponse(u),
		Capabilities: caps,
	}
}
