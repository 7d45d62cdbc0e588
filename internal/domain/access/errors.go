package access

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrAccessDenied    = errors.New("access denied")
	ErrAlreadySignedIn = errors.New("already signed in")
)

// DeniedError carries the role information shown on the access denied screen.
type DeniedError struct {
	Role     identity.Role
	Required RoleSet
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("access denied: role '%s' is not one of [%s]", e.Role, strings.Join(e.Required.Strings(), ", "))
}

func (e *DeniedError) Unwrap() error {
	return ErrAccessDenied
}
