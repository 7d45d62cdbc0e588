package identity

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, including employee and department management
	RoleManager  Role = "manager"  // Reviews logs and acts on behalf of employees
	RoleEmployee Role = "employee" // Clocks in/out for themselves
	RoleNone     Role = ""         // Absent or unrecognized role, no privileges
)

// ParseRole maps a raw role value to a known Role. Anything else is RoleNone.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	case RoleEmployee:
		return RoleEmployee
	default:
		return RoleNone
	}
}

// IsStaff reports whether the role picks whose attendance it acts on.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

// Context is the authenticated user's role context.
type Context struct {
	IsAuthenticated bool
	Role            Role
	EmployeeID      string
}

// Anonymous is the context of a browser session without a login.
var Anonymous = Context{}

// Session is a persisted login. It wraps the role context with what the
// console needs to talk to the backend on the user's behalf.
type Session struct {
	ID          string
	Email       string
	Role        Role
	EmployeeID  string
	AccessToken string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Context derives the role context. Expired sessions are anonymous.
func (s *Session) Context(now time.Time) Context {
	if s == nil || s.IsExpired(now) {
		return Anonymous
	}
	return Context{
		IsAuthenticated: true,
		Role:            s.Role,
		EmployeeID:      s.EmployeeID,
	}
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
