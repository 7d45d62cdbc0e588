package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := map[string]Role{
		"admin":      RoleAdmin,
		"Manager":    RoleManager,
		" employee ": RoleEmployee,
		"owner":      RoleNone,
		"":           RoleNone,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseRole(raw), raw)
	}
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAdmin.IsStaff())
	assert.True(t, RoleManager.IsStaff())
	assert.False(t, RoleEmployee.IsStaff())
	assert.False(t, RoleNone.IsStaff())
	assert.Equal(t, "none", RoleNone.String())
}

func TestSession_Context(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := &Session{Role: RoleManager, EmployeeID: "emp-1", ExpiresAt: now.Add(time.Hour)}

	assert.Equal(t, Context{IsAuthenticated: true, Role: RoleManager, EmployeeID: "emp-1"}, s.Context(now))
	assert.Equal(t, Anonymous, s.Context(now.Add(time.Hour)))

	var nilSession *Session
	assert.Equal(t, Anonymous, nilSession.Context(now))
}

func TestWithSession(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Anonymous, FromContext(ctx))
	assert.Nil(t, SessionFromContext(ctx))

	s := &Session{ID: "s1", Role: RoleEmployee}
	ic := Context{IsAuthenticated: true, Role: RoleEmployee}
	ctx = WithSession(ctx, s, ic)

	assert.Equal(t, ic, FromContext(ctx))
	assert.Same(t, s, SessionFromContext(ctx))
}
