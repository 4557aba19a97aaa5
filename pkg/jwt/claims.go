package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is who a token speaks for
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// Claims is the token payload. Role is the workflow role capabilities are
// checked against; it is re-parsed on every request.
type Claims struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}
