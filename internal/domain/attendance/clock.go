package attendance

type Phase string

const (
	PhaseNoRecord   Phase = "NO_RECORD"
	PhaseClockedIn  Phase = "CLOCKED_IN"
	PhaseClockedOut Phase = "CLOCKED_OUT"
)

type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
)

// PhaseOf classifies a day's record. A clock-out without a clock-in is ignored.
func PhaseOf(r *Record) Phase {
	switch {
	case r == nil || r.ClockIn == nil:
		return PhaseNoRecord
	case r.ClockOut == nil:
		return PhaseClockedIn
	default:
		return PhaseClockedOut
	}
}

// Transition returns the phase the backend will move to after a successful
// action, or the precondition error for an illegal one. Callers use it to
// refuse illegal actions locally; they never apply the result themselves.
func Transition(from Phase, action Action) (Phase, error) {
	switch action {
	case ActionClockIn:
		switch from {
		case PhaseNoRecord:
			return PhaseClockedIn, nil
		case PhaseClockedIn:
			return from, ErrAlreadyClockedIn
		default:
			return from, ErrAlreadyClockedOut
		}
	case ActionClockOut:
		switch from {
		case PhaseClockedIn:
			return PhaseClockedOut, nil
		case PhaseNoRecord:
			return from, ErrNotClockedIn
		default:
			return from, ErrAlreadyClockedOut
		}
	}
	return from, ErrUnknownAction
}

// Snapshot is the derived clock state for one target on one day.
type Snapshot struct {
	Target      Target
	Record      *Record
	Phase       Phase
	CanClockIn  bool
	CanClockOut bool
}

// NoSelection reports that no employee is resolved. Both actions are off.
func (s Snapshot) NoSelection() bool {
	return !s.Target.Resolved()
}

// Check returns the precondition error for action, nil when it is legal.
func (s Snapshot) Check(action Action) error {
	if s.NoSelection() {
		return ErrNoEmployeeSelected
	}
	_, err := Transition(s.Phase, action)
	return err
}

// Derive picks the target's record out of the day's records. It does not
// modify records and returns the same snapshot for the same input.
func Derive(records []Record, target Target) Snapshot {
	if !target.Resolved() {
		return Snapshot{Target: target}
	}

	var match *Record
	for i := range records {
		if records[i].EmployeeID == target.EmployeeID {
			rec := records[i]
			match = &rec
			break
		}
	}

	phase := PhaseOf(match)
	return Snapshot{
		Target:      target,
		Record:      match,
		Phase:       phase,
		CanClockIn:  phase == PhaseNoRecord,
		CanClockOut: phase == PhaseClockedIn,
	}
}
