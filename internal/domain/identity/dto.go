package identity

import (
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Credentials is what the backend login hands back, already decoded from
// the access token claims.
type Credentials struct {
	AccessToken string
	Email       string
	Role        Role
	EmployeeID  string
	ExpiresAt   time.Time
}

type MeResponse struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	Email           string `json:"email,omitempty"`
	Role            string `json:"role"`
	EmployeeID      string `json:"employee_id,omitempty"`
	ExpiresAt       string `json:"expires_at,omitempty"`
}

type LoginResponse struct {
	Me       MeResponse `json:"me"`
	Redirect string     `json:"redirect"`
}
