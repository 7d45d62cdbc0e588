package access

import "github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"

// RouteGroup is a named set of screens sharing one minimal role requirement.
type RouteGroup string

const (
	GroupPublic   RouteGroup = "public"   // Login and account setup, unauthenticated only
	GroupEveryone RouteGroup = "everyone" // Any authenticated role
	GroupStaff    RouteGroup = "staff"    // Managers and admins
	GroupAdmin    RouteGroup = "admin"    // Admins only
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// RoleSet is the set of roles allowed into a group.
type RoleSet []identity.Role

func (s RoleSet) Contains(role identity.Role) bool {
	if role == identity.RoleNone {
		return false
	}
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Policy maps each protected group to its allowed roles, narrowest to widest.
var Policy = map[RouteGroup]RoleSet{
	GroupAdmin:    {identity.RoleAdmin},
	GroupStaff:    {identity.RoleAdmin, identity.RoleManager},
	GroupEveryone: {identity.RoleAdmin, identity.RoleManager, identity.RoleEmployee},
}

// AllowedRoles returns the group's role set. Unknown groups allow nobody.
func AllowedRoles(group RouteGroup) RoleSet {
	return Policy[group]
}

// IsProtected reports whether the group requires a login.
func IsProtected(group RouteGroup) bool {
	return group != GroupPublic
}

// Screen is one navigable route.
type Screen struct {
	Path  string     `json:"path"`
	Name  string     `json:"name"`
	Title string     `json:"title"`
	Group RouteGroup `json:"group"`
}

// Screens is the console's route table.
var Screens = []Screen{
	{Path: "/login", Name: "login", Title: "Sign in", Group: GroupPublic},
	{Path: "/setup-account", Name: "setup_account", Title: "Set up your account", Group: GroupPublic},

	{Path: "/", Name: "home", Title: "Dashboard", Group: GroupEveryone},
	{Path: "/attendance", Name: "attendance", Title: "Attendance", Group: GroupEveryone},
	{Path: "/profile", Name: "profile", Title: "My profile", Group: GroupEveryone},

	{Path: "/attendance/logs", Name: "attendance_logs", Title: "Attendance logs", Group: GroupStaff},
	{Path: "/employees", Name: "employees", Title: "Employees", Group: GroupStaff},
	{Path: "/reports", Name: "reports", Title: "Reports", Group: GroupStaff},

	{Path: "/employees/manage", Name: "employees_manage", Title: "Manage employees", Group: GroupAdmin},
	{Path: "/departments", Name: "departments", Title: "Departments", Group: GroupAdmin},
}

// Reachable lists the screens a role context may navigate to.
func Reachable(ic identity.Context) []Screen {
	var out []Screen
	for _, s := range Screens {
		if Decide(ic, s.Group).Allowed {
			out = append(out, s)
		}
	}
	return out
}
