package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sirajyamin/blink-graphql/internal/apperr"
)

func TestAllowed(t *testing.T) {
	a := NewAuthorizer(map[string][]Capability{
		RoleAdmin: {CapGetAllUsers, CapDeleteUserByID},
		RoleUser:  {CapGetUserByID},
	})

	assert.True(t, a.Allowed(RoleAdmin, CapGetAllUsers))
	assert.True(t, a.Allowed(RoleUser, CapGetUserByID))
	assert.False(t, a.Allowed(RoleUser, CapDeleteUserByID))
	assert.False(t, a.Allowed("moderator", CapGetUserByID))
}

func TestDefaultTableGrantsEverything(t *testing.T) {
	a := NewAuthorizer(DefaultTable())
	caps := []Capability{CapGetAllUsers, CapGetUserByID, CapUpdateUser, CapDeleteUserByID}
	for _, role := range []string{RoleUser, RoleAdmin} {
		for _, c := range caps {
			assert.True(t, a.Allowed(role, c), "%s should hold %s", role, c)
		}
	}
}

func TestRequire(t *testing.T) {
	a := NewAuthorizer(map[string][]Capability{RoleUser: {CapGetUserByID}})

	err := a.Require(nil, CapGetUserByID)
	assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))

	err = a.Require(&Principal{ID: "u1", Role: RoleUser}, CapGetAllUsers)
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))

	assert.NoError(t, a.Require(&Principal{ID: "u1", Role: RoleUser}, CapGetUserByID))
}

func TestRequireSelfOrAdmin(t *testing.T) {
	a := NewAuthorizer(DefaultTable())
	self := &Principal{ID: "u1", Role: RoleUser}
	admin := &Principal{ID: "a1", Role: RoleAdmin}

	assert.NoError(t, a.RequireSelfOrAdmin(self, CapUpdateUser, "u1"))
	assert.NoError(t, a.RequireSelfOrAdmin(admin, CapUpdateUser, "u1"))

	err := a.RequireSelfOrAdmin(self, CapUpdateUser, "u2")
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))

	err = a.RequireSelfOrAdmin(nil, CapUpdateUser, "u1")
	assert.True(t, apperr.IsKind(err, apperr.Unauthenticated))
}
