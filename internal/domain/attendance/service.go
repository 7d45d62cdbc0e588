package attendance

import (
	"context"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
)

// Backend is the attendance REST API, called with the session's access token.
type Backend interface {
	ClockIn(ctx context.Context, token string, req ClockRequest) (message string, err error)
	ClockOut(ctx context.Context, token string, req ClockRequest) (message string, err error)
	ListAttendance(ctx context.Context, token string, query DayQuery) ([]Record, error)
	ListEmployees(ctx context.Context, token string, departmentID *string) ([]Employee, error)
}

// ScreenService drives the attendance screen of one browser session.
type ScreenService interface {
	// State fetches today's records and derives the screen state for the current target
	State(ctx context.Context, session identity.Session) (ScreenState, error)

	// Select changes the manager/admin target and cancels loads for the previous one
	Select(ctx context.Context, session identity.Session, req SelectRequest) (ScreenState, error)

	// ClockIn submits a clock-in for the current target and returns the refetched state
	ClockIn(ctx context.Context, session identity.Session, req ClockActionRequest) (ScreenState, error)

	// ClockOut submits a clock-out for the current target and returns the refetched state
	ClockOut(ctx context.Context, session identity.Session, req ClockActionRequest) (ScreenState, error)

	// Tick recomputes the duration from the last loaded state without a fetch
	Tick(session identity.Session) (TickResponse, bool)

	// Roster lists employees a manager/admin can select
	Roster(ctx context.Context, session identity.Session, departmentID *string) ([]EmployeeResponse, error)

	// Leave drops the screen when the user navigates away, cancelling in-flight loads
	Leave(sessionID string)
}
