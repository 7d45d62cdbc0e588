package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/attendance"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/clock"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/sse"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// maxLoadAttempts bounds reloads when a mutation lands while a load is in flight.
const maxLoadAttempts = 3

const (
	msgSelectEmployee = "Select an employee to view or record attendance"
	msgNotLinked      = "Your account is not linked to an employee record"
)

type Options struct {
	MaxScreens int
	ScreenTTL  time.Duration
}

type ScreenServiceImpl struct {
	backend attendance.Backend
	hub     *sse.Hub
	clock   clock.Clock
	logger  *slog.Logger

	mu      sync.Mutex
	screens *expirable.LRU[string, *screen]
	loads   singleflight.Group

	// pending holds sessions with an outstanding clock action. It lives
	// outside the screens so leaving the page does not lift the lock.
	pendingMu sync.Mutex
	pending   map[string]struct{}
}

func NewScreenService(backend attendance.Backend, hub *sse.Hub, clk clock.Clock, opts Options, logger *slog.Logger) *ScreenServiceImpl {
	if opts.MaxScreens <= 0 {
		opts.MaxScreens = 1024
	}
	if opts.ScreenTTL <= 0 {
		opts.ScreenTTL = 30 * time.Minute
	}

	onEvict := func(_ string, sc *screen) {
		sc.close()
	}

	return &ScreenServiceImpl{
		backend: backend,
		hub:     hub,
		clock:   clk,
		logger:  logger.With("component", "attendance_screen"),
		screens: expirable.NewLRU[string, *screen](opts.MaxScreens, onEvict, opts.ScreenTTL),
		pending: make(map[string]struct{}),
	}
}

// roleContext derives the caller's role context. An expired session is an
// authentication failure, never an empty selection.
func (s *ScreenServiceImpl) roleContext(session identity.Session) (identity.Context, error) {
	ic := session.Context(s.clock.Now())
	if !ic.IsAuthenticated {
		return identity.Anonymous, identity.ErrSessionExpired
	}
	return ic, nil
}

// tryBegin marks a clock action as outstanding for the session. Only one may
// run at a time.
func (s *ScreenServiceImpl) tryBegin(sessionID string) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	if _, ok := s.pending[sessionID]; ok {
		return false
	}
	s.pending[sessionID] = struct{}{}
	return true
}

func (s *ScreenServiceImpl) end(sessionID string) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	delete(s.pending, sessionID)
}

func (s *ScreenServiceImpl) isPending(sessionID string) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	_, ok := s.pending[sessionID]
	return ok
}

// screenFor returns the session's screen, creating it with no selection.
// Every access pushes the expiry back.
func (s *ScreenServiceImpl) screenFor(sessionID string) *screen {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.screens.Get(sessionID)
	if !ok {
		sc = newScreen()
	}
	s.screens.Add(sessionID, sc)
	return sc
}

// State implements attendance.ScreenService.
func (s *ScreenServiceImpl) State(ctx context.Context, session identity.Session) (attendance.ScreenState, error) {
	ic, err := s.roleContext(session)
	if err != nil {
		return attendance.ScreenState{}, err
	}
	sc := s.screenFor(session.ID)

	snap, err := s.load(ctx, session, sc, ic)
	if err != nil {
		return attendance.ScreenState{}, err
	}
	return s.render(ic, snap, s.isPending(session.ID)), nil
}

// Select implements attendance.ScreenService.
func (s *ScreenServiceImpl) Select(ctx context.Context, session identity.Session, req attendance.SelectRequest) (attendance.ScreenState, error) {
	ic, err := s.roleContext(session)
	if err != nil {
		return attendance.ScreenState{}, err
	}
	if !ic.Role.IsStaff() {
		return attendance.ScreenState{}, attendance.ErrSelectionNotAllowed
	}

	sc := s.screenFor(session.ID)
	sc.reselect(req.EmployeeID)
	s.hub.Publish(session.ID, sse.Event{
		Event: sse.EventSelectionChanged,
		Data:  map[string]string{"employee_id": req.EmployeeID},
	})

	return s.State(ctx, session)
}

// ClockIn implements attendance.ScreenService.
func (s *ScreenServiceImpl) ClockIn(ctx context.Context, session identity.Session, req attendance.ClockActionRequest) (attendance.ScreenState, error) {
	return s.act(ctx, session, attendance.ActionClockIn, req)
}

// ClockOut implements attendance.ScreenService.
func (s *ScreenServiceImpl) ClockOut(ctx context.Context, session identity.Session, req attendance.ClockActionRequest) (attendance.ScreenState, error) {
	return s.act(ctx, session, attendance.ActionClockOut, req)
}

func (s *ScreenServiceImpl) act(ctx context.Context, session identity.Session, action attendance.Action, req attendance.ClockActionRequest) (attendance.ScreenState, error) {
	ic, err := s.roleContext(session)
	if err != nil {
		return attendance.ScreenState{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.ScreenState{}, err
	}

	if !s.tryBegin(session.ID) {
		clockActionsTotal.WithLabelValues(string(action), "pending").Inc()
		return attendance.ScreenState{}, attendance.ErrActionPending
	}
	defer s.end(session.ID)

	sc := s.screenFor(session.ID)

	// Decide on fresh server state, never on what the browser last saw.
	before, err := s.load(ctx, session, sc, ic)
	if err != nil {
		return attendance.ScreenState{}, err
	}
	if err := before.Check(action); err != nil {
		clockActionsTotal.WithLabelValues(string(action), "refused").Inc()
		return attendance.ScreenState{}, err
	}

	clockReq := attendance.ClockRequest{EmployeeID: before.Target.EmployeeID, Notes: req.Notes}

	var message string
	switch action {
	case attendance.ActionClockIn:
		message, err = s.backend.ClockIn(ctx, session.AccessToken, clockReq)
	case attendance.ActionClockOut:
		message, err = s.backend.ClockOut(ctx, session.AccessToken, clockReq)
	}
	if err != nil {
		clockActionsTotal.WithLabelValues(string(action), "failed").Inc()
		s.logger.WarnContext(ctx, "clock action failed",
			"action", action,
			"employee_id", clockReq.EmployeeID,
			"error", err,
		)
		return attendance.ScreenState{}, fmt.Errorf("%s: %w", action, err)
	}
	clockActionsTotal.WithLabelValues(string(action), "confirmed").Inc()

	// The page may have been left while the backend call ran.
	sc = s.screenFor(session.ID)
	sc.invalidate()
	s.hub.Publish(session.ID, sse.Event{
		Event: sse.EventAttendanceChanged,
		Data: map[string]string{
			"action":      string(action),
			"employee_id": clockReq.EmployeeID,
		},
	})

	after, err := s.load(ctx, session, sc, ic)
	if err != nil {
		return attendance.ScreenState{}, fmt.Errorf("%s confirmed, reload failed: %w", action, err)
	}

	if expected, _ := attendance.Transition(before.Phase, action); after.Target == before.Target && after.Phase != expected {
		s.logger.WarnContext(ctx, "backend state differs from expected transition",
			"action", action,
			"employee_id", clockReq.EmployeeID,
			"expected", expected,
			"actual", after.Phase,
		)
	}

	state := s.render(ic, after, false)
	state.Message = message
	return state, nil
}

// Tick implements attendance.ScreenService.
func (s *ScreenServiceImpl) Tick(session identity.Session) (attendance.TickResponse, bool) {
	s.mu.Lock()
	sc, ok := s.screens.Peek(session.ID)
	s.mu.Unlock()
	if !ok {
		return attendance.TickResponse{}, false
	}

	snap, ok := sc.lastSnapshot()
	if !ok || snap.Phase != attendance.PhaseClockedIn {
		return attendance.TickResponse{}, false
	}

	now := s.clock.Now()
	d, ok := attendance.SessionDuration(snap.Record, now)
	if !ok {
		return attendance.TickResponse{}, false
	}

	return attendance.TickResponse{
		TargetEmployeeID: snap.Target.EmployeeID,
		Phase:            string(snap.Phase),
		Duration:         attendance.NewDurationResponse(d),
		AsOf:             now.Format(time.RFC3339),
	}, true
}

// Roster implements attendance.ScreenService.
func (s *ScreenServiceImpl) Roster(ctx context.Context, session identity.Session, departmentID *string) ([]attendance.EmployeeResponse, error) {
	ic, err := s.roleContext(session)
	if err != nil {
		return nil, err
	}
	if !ic.Role.IsStaff() {
		return nil, attendance.ErrSelectionNotAllowed
	}

	employees, err := s.backend.ListEmployees(ctx, session.AccessToken, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	resp := make([]attendance.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, attendance.NewEmployeeResponse(e))
	}
	return resp, nil
}

// Leave implements attendance.ScreenService.
func (s *ScreenServiceImpl) Leave(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Remove runs the eviction callback which cancels in-flight loads.
	s.screens.Remove(sessionID)
}

// load fetches today's records for the current target and commits the
// derived snapshot. Loads for the same session, selection and revision share
// one backend call. A load whose selection changed underneath it fails with
// ErrSelectionChanged; one overtaken by a mutation is retried.
func (s *ScreenServiceImpl) load(ctx context.Context, session identity.Session, sc *screen, ic identity.Context) (attendance.Snapshot, error) {
	for attempt := 0; attempt < maxLoadAttempts; attempt++ {
		selected, gen, rev, genCtx := sc.current()
		target := attendance.ResolveTarget(ic, selected)

		if !target.Resolved() {
			snap := attendance.Derive(nil, target)
			if sc.commit(gen, rev, snap) {
				return snap, nil
			}
			continue
		}

		query := attendance.Today(s.clock.Now())
		query.EmployeeID = &target.EmployeeID

		key := fmt.Sprintf("%s|%d|%d|%s|%s", session.ID, gen, rev, target.EmployeeID, query.StartDate)
		ch := s.loads.DoChan(key, func() (interface{}, error) {
			// Bound to the selection, not to whichever request started it.
			return s.backend.ListAttendance(genCtx, session.AccessToken, query)
		})

		var res singleflight.Result
		select {
		case <-ctx.Done():
			return attendance.Snapshot{}, ctx.Err()
		case <-genCtx.Done():
			screenLoadsTotal.WithLabelValues("superseded").Inc()
			return attendance.Snapshot{}, attendance.ErrSelectionChanged
		case res = <-ch:
		}

		if res.Err != nil {
			if genCtx.Err() != nil {
				screenLoadsTotal.WithLabelValues("superseded").Inc()
				return attendance.Snapshot{}, attendance.ErrSelectionChanged
			}
			screenLoadsTotal.WithLabelValues("failed").Inc()
			return attendance.Snapshot{}, fmt.Errorf("load attendance: %w", res.Err)
		}

		records, _ := res.Val.([]attendance.Record)
		snap := attendance.Derive(records, target)
		if sc.commit(gen, rev, snap) {
			screenLoadsTotal.WithLabelValues("ok").Inc()
			return snap, nil
		}

		if current, currentGen, _, _ := sc.current(); currentGen != gen || current != selected {
			screenLoadsTotal.WithLabelValues("superseded").Inc()
			return attendance.Snapshot{}, attendance.ErrSelectionChanged
		}
	}

	screenLoadsTotal.WithLabelValues("superseded").Inc()
	return attendance.Snapshot{}, attendance.ErrSelectionChanged
}

func (s *ScreenServiceImpl) render(ic identity.Context, snap attendance.Snapshot, pending bool) attendance.ScreenState {
	now := s.clock.Now()

	state := attendance.ScreenState{
		TargetEmployeeID: snap.Target.EmployeeID,
		SelfTarget:       snap.Target.Self,
		CanSelect:        ic.Role.IsStaff(),
		NoSelection:      snap.NoSelection(),
		Pending:          pending,
		Punctuality:      string(attendance.PunctualityUnknown),
		AsOf:             now.Format(time.RFC3339),
	}

	if snap.NoSelection() {
		if ic.Role.IsStaff() {
			state.Message = msgSelectEmployee
		} else {
			state.Message = msgNotLinked
		}
		return state
	}

	state.Phase = string(snap.Phase)
	state.CanClockIn = snap.CanClockIn && !pending
	state.CanClockOut = snap.CanClockOut && !pending
	state.Record = attendance.NewRecordResponse(snap.Record)

	if d, ok := attendance.SessionDuration(snap.Record, now); ok {
		if d.Anomaly {
			dataAnomaliesTotal.Inc()
			s.logger.Warn("attendance record has an invalid duration",
				"record_id", snap.Record.ID,
				"employee_id", snap.Record.EmployeeID,
			)
		}
		dr := attendance.NewDurationResponse(d)
		state.Duration = &dr
	}

	label, advisory := attendance.Label(snap.Record)
	state.Punctuality = string(label)
	state.PunctualityAdvisory = advisory

	return state
}
