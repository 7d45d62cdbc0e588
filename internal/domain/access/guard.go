package access

import "github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"

type Reason string

const (
	ReasonNone             Reason = ""
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonAlreadySignedIn  Reason = "already_signed_in"
)

// Decision is the guard's verdict for one navigation attempt.
type Decision struct {
	Allowed  bool
	Reason   Reason
	Redirect string // set for unauthenticated and already-signed-in outcomes
	Role     identity.Role
	Required RoleSet
}

// Outcome is a short label for logs and metrics.
func (d Decision) Outcome() string {
	switch {
	case d.Allowed:
		return "allowed"
	case d.Redirect != "":
		return "redirected"
	default:
		return "denied"
	}
}

// Err returns the error matching a denial, nil when allowed.
func (d Decision) Err() error {
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonInsufficientRole:
		return &DeniedError{Role: d.Role, Required: d.Required}
	case ReasonAlreadySignedIn:
		return ErrAlreadySignedIn
	}
	return nil
}

// Decide evaluates a navigation attempt to group. It has no side effects.
//
// Redirect targets are constant and never themselves protected, so a denied
// attempt can be repeated without producing a redirect loop.
func Decide(ic identity.Context, group RouteGroup) Decision {
	if !IsProtected(group) {
		if ic.IsAuthenticated {
			return Decision{Reason: ReasonAlreadySignedIn, Redirect: HomePath, Role: ic.Role}
		}
		return Decision{Allowed: true}
	}

	required := AllowedRoles(group)
	if !ic.IsAuthenticated {
		return Decision{Reason: ReasonUnauthenticated, Redirect: LoginPath, Required: required}
	}

	if !required.Contains(ic.Role) {
		return Decision{Reason: ReasonInsufficientRole, Role: ic.Role, Required: required}
	}

	return Decision{Allowed: true, Role: ic.Role, Required: required}
}
