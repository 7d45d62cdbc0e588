package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var day = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func at(h, m, s int) *Stamp {
	return At(day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second))
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		name   string
		record *Record
		want   Phase
	}{
		{"no record", nil, PhaseNoRecord},
		{"record without clock-in", &Record{EmployeeID: "e"}, PhaseNoRecord},
		{"clock-out without clock-in", &Record{EmployeeID: "e", ClockOut: at(17, 0, 0)}, PhaseNoRecord},
		{"clocked in", &Record{EmployeeID: "e", ClockIn: at(9, 0, 0)}, PhaseClockedIn},
		{"clocked out", &Record{EmployeeID: "e", ClockIn: at(9, 0, 0), ClockOut: at(17, 0, 0)}, PhaseClockedOut},
		{"malformed clock-in still counts", &Record{EmployeeID: "e", ClockIn: &Stamp{Raw: "garbage"}}, PhaseClockedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhaseOf(tt.record))
		})
	}
}

func TestDerive_Actions(t *testing.T) {
	target := Target{EmployeeID: "e"}

	tests := []struct {
		name        string
		record      Record
		phase       Phase
		canClockIn  bool
		canClockOut bool
	}{
		{"no clock-in", Record{EmployeeID: "e"}, PhaseNoRecord, true, false},
		{"open session", Record{EmployeeID: "e", ClockIn: at(9, 0, 0)}, PhaseClockedIn, false, true},
		{"closed session", Record{EmployeeID: "e", ClockIn: at(9, 0, 0), ClockOut: at(17, 0, 0)}, PhaseClockedOut, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Derive([]Record{tt.record}, target)
			assert.Equal(t, tt.phase, snap.Phase)
			assert.Equal(t, tt.canClockIn, snap.CanClockIn)
			assert.Equal(t, tt.canClockOut, snap.CanClockOut)
			assert.False(t, snap.NoSelection())
		})
	}
}

func TestDerive_PicksTargetRecord(t *testing.T) {
	records := []Record{
		{ID: "1", EmployeeID: "other", ClockIn: at(8, 0, 0)},
		{ID: "2", EmployeeID: "e", ClockIn: at(9, 0, 0)},
	}

	snap := Derive(records, Target{EmployeeID: "e"})
	assert.Equal(t, "2", snap.Record.ID)

	snap = Derive(records, Target{EmployeeID: "missing"})
	assert.Nil(t, snap.Record)
	assert.Equal(t, PhaseNoRecord, snap.Phase)
}

func TestDerive_IsPure(t *testing.T) {
	records := []Record{{ID: "1", EmployeeID: "e", ClockIn: at(9, 0, 0)}}
	target := Target{EmployeeID: "e"}

	first := Derive(records, target)
	second := Derive(records, target)

	assert.Equal(t, first, second)
	first.Record.Status = "changed"
	assert.Empty(t, records[0].Status, "derived record is a copy")
}

func TestDerive_NoSelection(t *testing.T) {
	snap := Derive([]Record{{EmployeeID: "e", ClockIn: at(9, 0, 0)}}, Target{})

	assert.True(t, snap.NoSelection())
	assert.False(t, snap.CanClockIn)
	assert.False(t, snap.CanClockOut)
	assert.NotEqual(t, PhaseNoRecord, snap.Phase, "no selection is not NO_RECORD")
	assert.ErrorIs(t, snap.Check(ActionClockIn), ErrNoEmployeeSelected)
	assert.ErrorIs(t, snap.Check(ActionClockOut), ErrNoEmployeeSelected)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from    Phase
		action  Action
		want    Phase
		wantErr error
	}{
		{PhaseNoRecord, ActionClockIn, PhaseClockedIn, nil},
		{PhaseClockedIn, ActionClockOut, PhaseClockedOut, nil},
		{PhaseClockedIn, ActionClockIn, PhaseClockedIn, ErrAlreadyClockedIn},
		{PhaseClockedOut, ActionClockIn, PhaseClockedOut, ErrAlreadyClockedOut},
		{PhaseNoRecord, ActionClockOut, PhaseNoRecord, ErrNotClockedIn},
		{PhaseClockedOut, ActionClockOut, PhaseClockedOut, ErrAlreadyClockedOut},
		{PhaseNoRecord, Action("pause"), PhaseNoRecord, ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			got, err := Transition(tt.from, tt.action)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
