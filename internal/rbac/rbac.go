package rbac

import (
	"github.com/sirajyamin/blink-graphql/internal/apperr"
)

// Capability is a named permission granted to a role.
type Capability string

const (
	CapGetAllUsers    Capability = "GET_ALL_USERS"
	CapGetUserByID    Capability = "GET_USER_BY_ID"
	CapUpdateUser     Capability = "UPDATE_USER"
	CapDeleteUserByID Capability = "DELETE_USER_BY_ID"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Principal is the authenticated caller decoded from the token.
type Principal struct {
	ID    string
	Email string
	Role  string
}

func (p *Principal) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }

// Authorizer answers capability checks against a role→capability table
// built once at startup and never mutated afterwards.
type Authorizer struct {
	perms map[string]map[Capability]struct{}
}

// NewAuthorizer builds the gate from a role→capability mapping.
func NewAuthorizer(table map[string][]Capability) *Authorizer {
	perms := make(map[string]map[Capability]struct{}, len(table))
	for role, caps := range table {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		perms[role] = set
	}
	return &Authorizer{perms: perms}
}

// DefaultTable mirrors the static permission data the application ships
// with.
func DefaultTable() map[string][]Capability {
	all := []Capability{
		CapGetAllUsers,
		CapGetUserByID,
		CapUpdateUser,
		CapDeleteUserByID,
	}
	return map[string][]Capability{
		RoleUser:  all,
		RoleAdmin: all,
	}
}

// Allowed reports whether role holds the capability.
func (a *Authorizer) Allowed(role string, cap Capability) bool {
	set, ok := a.perms[role]
	if !ok {
		return false
	}
	_, ok = set[cap]
	return ok
}

// Require fails with Unauthenticated when there is no caller, and
// Unauthorized when the caller's role lacks the capability.
func (a *Authorizer) Require(p *Principal, cap Capability) error {
	if p == nil {
		return apperr.New(apperr.Unauthenticated, "Not authenticated")
	}
	if !a.Allowed(p.Role, cap) {
		return apperr.New(apperr.Unauthorized, "Not authorized")
	}
	return nil
}

// RequireSelfOrAdmin additionally demands that the caller either is the
// target user or holds the admin role.
func (a *Authorizer) RequireSelfOrAdmin(p *Principal, cap Capability, targetID string) error {
	if err := a.Require(p, cap); err != nil {
		return err
	}
	if p.ID != targetID && !p.IsAdmin() {
		return apperr.New(apperr.Unauthorized, "Not authorized")
	}
	return nil
}
