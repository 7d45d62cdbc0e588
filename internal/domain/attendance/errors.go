package attendance

import "errors"

// Attendance screen errors
var (
	// Precondition errors, never sent to the backend
	ErrNoEmployeeSelected  = errors.New("select an employee before clocking in or out")
	ErrAlreadyClockedIn    = errors.New("employee has already clocked in today")
	ErrNotClockedIn        = errors.New("employee has not clocked in yet")
	ErrAlreadyClockedOut   = errors.New("employee has already clocked out today")
	ErrActionPending       = errors.New("another clock action is still in progress")
	ErrSelectionNotAllowed = errors.New("employees can only act on their own attendance")

	// Screen errors
	ErrSelectionChanged = errors.New("employee selection changed while loading")
	ErrUnknownAction    = errors.New("unknown clock action")
)
