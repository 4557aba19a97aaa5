package authz

import (
	"fmt"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
)

// Capability is a permission required by a workflow operation
type Capability string

const (
	CapReviewAgenda   Capability = "review_agenda"
	CapOrganizeAgenda Capability = "organize_agenda"
	CapApproveMinutes Capability = "approve_minutes"
	CapManageMeetings Capability = "manage_meetings"
)

// Authorizer checks that an actor holds a capability
type Authorizer interface {
	Require(actor entities.Actor, capability Capability) error
}

// RoleAuthorizer grants capabilities by user role
type RoleAuthorizer struct {
	grants map[entities.UserRole]map[Capability]bool
}

// AllCapabilities lists every capability in a stable order
func AllCapabilities() []Capability {
	return []Capability{CapReviewAgenda, CapOrganizeAgenda, CapApproveMinutes, CapManageMeetings}
}

// DefaultGrants returns the built-in role to capability table
func DefaultGrants() map[entities.UserRole][]Capability {
	all := AllCapabilities()
	return map[entities.UserRole][]Capability{
		entities.RoleAdmin:     all,
		entities.RoleChair:     all,
		entities.RoleSecretary: {CapOrganizeAgenda, CapManageMeetings},
		entities.RoleMember:    nil,
	}
}

// NewRoleAuthorizer builds an authorizer from a grant table
func NewRoleAuthorizer(grants map[entities.UserRole][]Capability) *RoleAuthorizer {
	a := &RoleAuthorizer{grants: make(map[entities.UserRole]map[Capability]bool, len(grants))}
	for role, caps := range grants {
		set := make(map[Capability]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		a.grants[role] = set
	}
	return a
}

// Can reports whether role holds capability
func (a *RoleAuthorizer) Can(role entities.UserRole, capability Capability) bool {
	return a.grants[role][capability]
}

// Require returns entities.ErrUnauthorized when the actor lacks capability
func (a *RoleAuthorizer) Require(actor entities.Actor, capability Capability) error {
	if a.Can(actor.Role, capability) {
		return nil
	}
	return fmt.Errorf("%w: role %q lacks %s", entities.ErrUnauthorized, actor.Role, capability)
}

var _ Authorizer = (*RoleAuthorizer)(nil)
