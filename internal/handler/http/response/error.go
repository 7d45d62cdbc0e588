package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/access"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/attendance"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/backend"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var denied *access.DeniedError
	if errors.As(err, &denied) {
		Denied(w, "You do not have access to this page", NewDeniedView("", "", denied))
		return
	}

	var backendErr *backend.Error

	switch {
	// Identity errors
	case errors.Is(err, identity.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, identity.ErrSessionNotFound),
		errors.Is(err, identity.ErrSessionExpired),
		errors.Is(err, identity.ErrInvalidToken),
		errors.Is(err, access.ErrUnauthenticated):
		LoginRequired(w, access.LoginPath)
	case errors.Is(err, access.ErrAlreadySignedIn):
		ConflictWithCode(w, "ALREADY_SIGNED_IN", "Already signed in")

	// Attendance preconditions, refused before reaching the backend
	case errors.Is(err, attendance.ErrNoEmployeeSelected):
		PreconditionFailed(w, "NO_EMPLOYEE_SELECTED", err.Error())
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		ConflictWithCode(w, "ALREADY_CLOCKED_IN", err.Error())
	case errors.Is(err, attendance.ErrNotClockedIn):
		ConflictWithCode(w, "NOT_CLOCKED_IN", err.Error())
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		ConflictWithCode(w, "ALREADY_CLOCKED_OUT", err.Error())
	case errors.Is(err, attendance.ErrActionPending):
		ConflictWithCode(w, "ACTION_PENDING", err.Error())
	case errors.Is(err, attendance.ErrSelectionChanged):
		ConflictWithCode(w, "SELECTION_CHANGED", err.Error())
	case errors.Is(err, attendance.ErrSelectionNotAllowed):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrUnknownAction):
		BadRequest(w, err.Error(), nil)

	// Backend failures
	case errors.As(err, &backendErr):
		message := backendErr.Message
		if message == "" {
			message = "Attendance service rejected the request"
		}
		BadGateway(w, message, backendErr.Transient())
	case errors.Is(err, backend.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		BadGateway(w, "Attendance service is unavailable, try again", true)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

// NewDeniedView builds the denial screen for a guard refusal. back is the
// page to return to and is left out when empty.
func NewDeniedView(screen, back string, denied *access.DeniedError) DeniedView {
	links := make([]Link, 0, 2)
	if back != "" {
		links = append(links, Link{Label: "Back", Href: back})
	}
	links = append(links, Link{Label: "Home", Href: access.HomePath})

	return DeniedView{
		Screen:        screen,
		Title:         "Access denied",
		Role:          denied.Role.String(),
		RequiredRoles: denied.Required.Strings(),
		Links:         links,
	}
}
