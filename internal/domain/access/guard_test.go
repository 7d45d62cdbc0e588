package access

import (
	"errors"
	"testing"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allRoles = []identity.Role{identity.RoleAdmin, identity.RoleManager, identity.RoleEmployee, identity.RoleNone, identity.Role("owner")}

var protectedGroups = []RouteGroup{GroupEveryone, GroupStaff, GroupAdmin}

func signedIn(role identity.Role) identity.Context {
	return identity.Context{IsAuthenticated: true, Role: role, EmployeeID: "emp-1"}
}

func TestDecide_UnauthenticatedAlwaysRedirectsToLogin(t *testing.T) {
	for _, group := range protectedGroups {
		for _, role := range allRoles {
			// A role value without authentication grants nothing.
			ic := identity.Context{IsAuthenticated: false, Role: role}
			d := Decide(ic, group)

			assert.False(t, d.Allowed, "%s/%s", group, role)
			assert.Equal(t, ReasonUnauthenticated, d.Reason)
			assert.Equal(t, LoginPath, d.Redirect)
			assert.ErrorIs(t, d.Err(), ErrUnauthenticated)
		}
	}
}

func TestDecide_RedirectTargetsAreNotGuardedAgainstThemselves(t *testing.T) {
	// Following a redirect lands on a screen the same user is allowed to see.
	assert.True(t, Decide(identity.Anonymous, groupOf(t, LoginPath)).Allowed)
	for _, role := range []identity.Role{identity.RoleAdmin, identity.RoleManager, identity.RoleEmployee} {
		assert.True(t, Decide(signedIn(role), groupOf(t, HomePath)).Allowed, role)
	}
}

func TestDecide_PublicOnly(t *testing.T) {
	assert.True(t, Decide(identity.Anonymous, GroupPublic).Allowed)

	for _, role := range allRoles {
		d := Decide(signedIn(role), GroupPublic)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonAlreadySignedIn, d.Reason)
		assert.Equal(t, HomePath, d.Redirect)
		assert.Equal(t, "redirected", d.Outcome())
	}
}

func TestDecide_EmployeeDeniedAdminGroup(t *testing.T) {
	d := Decide(signedIn(identity.RoleEmployee), GroupAdmin)

	assert.False(t, d.Allowed)
	assert.Empty(t, d.Redirect)
	assert.Equal(t, ReasonInsufficientRole, d.Reason)
	assert.Equal(t, "denied", d.Outcome())

	var denied *DeniedError
	require.True(t, errors.As(d.Err(), &denied))
	assert.Equal(t, identity.RoleEmployee, denied.Role)
	assert.Equal(t, []string{"admin"}, denied.Required.Strings())
	assert.Contains(t, denied.Error(), "admin")
	assert.ErrorIs(t, d.Err(), ErrAccessDenied)
}

func TestDecide_Matrix(t *testing.T) {
	tests := []struct {
		role    identity.Role
		group   RouteGroup
		allowed bool
	}{
		{identity.RoleEmployee, GroupEveryone, true},
		{identity.RoleEmployee, GroupStaff, false},
		{identity.RoleEmployee, GroupAdmin, false},
		{identity.RoleManager, GroupEveryone, true},
		{identity.RoleManager, GroupStaff, true},
		{identity.RoleManager, GroupAdmin, false},
		{identity.RoleAdmin, GroupEveryone, true},
		{identity.RoleAdmin, GroupStaff, true},
		{identity.RoleAdmin, GroupAdmin, true},
		{identity.RoleNone, GroupEveryone, false},
		{identity.Role("owner"), GroupEveryone, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.group), func(t *testing.T) {
			d := Decide(signedIn(tt.role), tt.group)
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				assert.NoError(t, d.Err())
				assert.Equal(t, "allowed", d.Outcome())
			}
		})
	}
}

func TestDecide_UnknownGroupAllowsNobody(t *testing.T) {
	d := Decide(signedIn(identity.RoleAdmin), RouteGroup("billing"))
	assert.False(t, d.Allowed)
}

func groupOf(t *testing.T, path string) RouteGroup {
	t.Helper()
	for _, s := range Screens {
		if s.Path == path {
			return s.Group
		}
	}
	t.Fatalf("no screen for %s", path)
	return ""
}
