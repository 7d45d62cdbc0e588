package attendance

import (
	"strings"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
)

// Target is the employee whose attendance is viewed and acted on.
type Target struct {
	EmployeeID string
	Self       bool
}

func (t Target) Resolved() bool {
	return t.EmployeeID != ""
}

// ResolveTarget picks the target for a role context. Employees always act on
// themselves. Managers and admins act on the selected employee and get no
// target until they pick one.
func ResolveTarget(ic identity.Context, selected string) Target {
	if !ic.IsAuthenticated {
		return Target{}
	}

	switch {
	case ic.Role == identity.RoleEmployee:
		return Target{EmployeeID: strings.TrimSpace(ic.EmployeeID), Self: true}
	case ic.Role.IsStaff():
		id := strings.TrimSpace(selected)
		return Target{EmployeeID: id, Self: id != "" && id == ic.EmployeeID}
	default:
		return Target{}
	}
}
