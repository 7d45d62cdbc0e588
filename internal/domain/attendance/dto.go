package attendance

import (
	"time"
	"unicode/utf8"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/validator"
)

// ========================================
// CLOCK ACTION DTOs
// ========================================

// ClockRequest is sent to the backend for both clock-in and clock-out.
type ClockRequest struct {
	EmployeeID string  `json:"employee_id"`
	Notes      *string `json:"notes,omitempty"`
}

// ClockActionRequest is what the browser posts; the target comes from the screen.
type ClockActionRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r *ClockActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Notes != nil && utf8.RuneCountInString(*r.Notes) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SelectRequest struct {
	EmployeeID string `json:"employee_id"`
}

// ========================================
// QUERY DTOs
// ========================================

// DayQuery filters the backend attendance list.
type DayQuery struct {
	StartDate    string // YYYY-MM-DD
	EndDate      string // YYYY-MM-DD
	DepartmentID *string
	EmployeeID   *string
}

// Today builds the query for the calendar day of now in now's location.
func Today(now time.Time) DayQuery {
	day := now.Format("2006-01-02")
	return DayQuery{StartDate: day, EndDate: day}
}

func (q *DayQuery) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(q.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(q.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// SCREEN VIEW DTOs
// ========================================

type RecordResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Date         string  `json:"date"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`
	ClockOutTime *string `json:"clock_out_time,omitempty"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
}

type DurationResponse struct {
	Text    string `json:"text"`
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Live    bool   `json:"live"`
	Anomaly bool   `json:"anomaly"`
}

// ScreenState is everything the attendance screen renders.
type ScreenState struct {
	TargetEmployeeID    string            `json:"target_employee_id,omitempty"`
	SelfTarget          bool              `json:"self_target"`
	CanSelect           bool              `json:"can_select"`
	NoSelection         bool              `json:"no_selection"`
	Phase               string            `json:"phase,omitempty"`
	CanClockIn          bool              `json:"can_clock_in"`
	CanClockOut         bool              `json:"can_clock_out"`
	Pending             bool              `json:"pending"`
	Record              *RecordResponse   `json:"record,omitempty"`
	Duration            *DurationResponse `json:"duration,omitempty"`
	Punctuality         string            `json:"punctuality"`
	PunctualityAdvisory bool              `json:"punctuality_advisory"`
	Message             string            `json:"message,omitempty"`
	AsOf                string            `json:"as_of"`
}

// TickResponse is pushed on the live stream once per tick.
type TickResponse struct {
	TargetEmployeeID string           `json:"target_employee_id"`
	Phase            string           `json:"phase"`
	Duration         DurationResponse `json:"duration"`
	AsOf             string           `json:"as_of"`
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Code         string  `json:"code,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
}

func NewDurationResponse(d Duration) DurationResponse {
	return DurationResponse{
		Text:    d.String(),
		Hours:   d.Hours,
		Minutes: d.Minutes,
		Live:    d.Live,
		Anomaly: d.Anomaly,
	}
}

func NewRecordResponse(r *Record) *RecordResponse {
	if r == nil {
		return nil
	}
	return &RecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Date:         r.Date,
		ClockInTime:  stampToString(r.ClockIn),
		ClockOutTime: stampToString(r.ClockOut),
		Status:       string(r.Punctuality()),
		Notes:        r.Notes,
	}
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Code:         e.Code,
		DepartmentID: e.DepartmentID,
		Department:   e.Department,
		Position:     e.Position,
	}
}

// stampToString keeps malformed values visible as the backend sent them.
func stampToString(s *Stamp) *string {
	if s == nil {
		return nil
	}
	if !s.Valid {
		raw := s.Raw
		return &raw
	}
	format := s.Time.Format(time.RFC3339)
	return &format
}
