package attendance

import (
	"fmt"
	"time"
)

// Duration is a worked duration floored to whole hours and minutes.
type Duration struct {
	Hours   int
	Minutes int
	Live    bool // still running, recomputed on every tick
	Anomaly bool // negative span or unparseable timestamp, shown as 0h 0m
}

func (d Duration) String() string {
	return fmt.Sprintf("%dh %dm", d.Hours, d.Minutes)
}

// Between floors end-start. A negative span yields the 0h 0m sentinel
// flagged as an anomaly rather than being normalized.
func Between(start, end time.Time) Duration {
	span := end.Sub(start)
	if span < 0 {
		return Duration{Anomaly: true}
	}
	total := int(span / time.Minute)
	return Duration{Hours: total / 60, Minutes: total % 60}
}

// SessionDuration returns the live duration of an open session or the fixed
// duration of a closed one. ok is false when there is nothing to measure.
func SessionDuration(r *Record, now time.Time) (d Duration, ok bool) {
	switch PhaseOf(r) {
	case PhaseClockedIn:
		if !r.ClockIn.Valid {
			return Duration{Live: true, Anomaly: true}, true
		}
		d = Between(r.ClockIn.Time, now)
		d.Live = true
		return d, true
	case PhaseClockedOut:
		if !r.ClockIn.Valid || !r.ClockOut.Valid {
			return Duration{Anomaly: true}, true
		}
		return Between(r.ClockIn.Time, r.ClockOut.Time), true
	default:
		return Duration{}, false
	}
}

// Label returns the punctuality shown for a record. The value is always the
// server's; while the session is open it is only advisory because the final
// classification is computed by the backend after clock-out.
func Label(r *Record) (p Punctuality, advisory bool) {
	if r == nil {
		return PunctualityUnknown, false
	}
	return r.Punctuality(), PhaseOf(r) == PhaseClockedIn
}
