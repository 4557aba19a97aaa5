package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a member of the organisation that owns the meetings
type User struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Email    string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name     string    `json:"name" gorm:"type:varchar(255);not null"`
	Role     UserRole  `json:"role" gorm:"type:varchar(50);default:'member';not null"`
	IsActive bool      `json:"is_active" gorm:"default:true;not null"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns an ID when missing
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserRole defines user roles
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleChair     UserRole = "chair"
	RoleSecretary UserRole = "secretary"
	RoleMember    UserRole = "member"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleChair, RoleSecretary, RoleMember:
		return true
	}
	return false
}

// ParseUserRole parses a role name, case-insensitively
func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// NewUser creates a new active user with the given role
func NewUser(email, name string, role UserRole) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Name:      name,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Actor is the identity performing a workflow operation
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}

// Ref returns a pointer to the actor's user id, nil for the zero actor
func (a Actor) Ref() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}
