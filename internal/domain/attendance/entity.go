package attendance

import (
	"strings"
	"time"
)

// Punctuality is the server-computed classification of a day.
type Punctuality string

const (
	PunctualityOnTime     Punctuality = "on_time"
	PunctualityLate       Punctuality = "late"
	PunctualityEarlyLeave Punctuality = "early_leave"
	PunctualityAbsent     Punctuality = "absent"
	PunctualityUnknown    Punctuality = "unknown"
)

// ParsePunctuality keeps the server's label when it is one of the known
// classifications and reports unknown otherwise. It never derives a label.
func ParsePunctuality(raw string) Punctuality {
	switch p := Punctuality(strings.ToLower(strings.TrimSpace(raw))); p {
	case PunctualityOnTime, PunctualityLate, PunctualityEarlyLeave, PunctualityAbsent:
		return p
	default:
		return PunctualityUnknown
	}
}

// Stamp is a timestamp as the backend sent it. A present but unparseable
// value keeps Valid=false so it still counts as present.
type Stamp struct {
	Raw   string
	Time  time.Time
	Valid bool
}

var stampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseStamp returns nil for an empty value. Layouts without a zone are read in loc.
func ParseStamp(raw string, loc *time.Location) *Stamp {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &Stamp{Raw: raw, Time: t, Valid: true}
		}
	}
	return &Stamp{Raw: raw}
}

// At is a helper for building valid stamps.
func At(t time.Time) *Stamp {
	return &Stamp{Raw: t.Format(time.RFC3339), Time: t, Valid: true}
}

// Record is one employee's attendance for one calendar day. Server-owned.
type Record struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Date         string
	ClockIn      *Stamp
	ClockOut     *Stamp
	Status       string
	Notes        *string
}

func (r Record) Punctuality() Punctuality {
	return ParsePunctuality(r.Status)
}

// Employee is one roster entry offered to managers and admins.
type Employee struct {
	ID           string
	Name         string
	Code         string
	DepartmentID *string
	Department   *string
	Position     *string
}
