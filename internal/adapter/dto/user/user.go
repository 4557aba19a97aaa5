package user

import "time"

// UserResponse represents the authenticated user
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// MeResponse is the caller's identity with the capabilities their role grants
type MeResponse struct {
	User         *UserResponse `json:"user"`
	Capabilities []string      `json:"capabilities"`
}
