package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/access"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/attendance"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/handler/http/response"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/clock"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/sse"
)

const (
	eventState = "state"
	eventTick  = "tick"
	eventError = "error"
	eventPing  = "ping"
)

type AttendanceHandler interface {
	Screen(w http.ResponseWriter, r *http.Request)
	Select(w http.ResponseWriter, r *http.Request)
	Leave(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Live(w http.ResponseWriter, r *http.Request)
	Roster(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	screens           attendance.ScreenService
	hub               *sse.Hub
	clock             clock.Clock
	tickInterval      time.Duration
	keepaliveInterval time.Duration
	logger            *slog.Logger
}

func NewAttendanceHandler(screens attendance.ScreenService, hub *sse.Hub, clk clock.Clock, tickInterval time.Duration, logger *slog.Logger) AttendanceHandler {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	return &AttendanceHandlerImpl{
		screens:           screens,
		hub:               hub,
		clock:             clk,
		tickInterval:      tickInterval,
		keepaliveInterval: 30 * time.Second,
		logger:            logger,
	}
}

// sessionFrom returns the session bound by the session middleware. The
// route guard runs first, so a missing session is only possible when the
// router is miswired.
func sessionFrom(w http.ResponseWriter, r *http.Request) (identity.Session, bool) {
	session := identity.SessionFromContext(r.Context())
	if session == nil {
		response.HandleError(w, access.ErrUnauthenticated)
		return identity.Session{}, false
	}
	return *session, true
}

// Screen implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Screen(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	state, err := h.screens.State(r.Context(), session)
	if err != nil {
		h.logger.Warn("Screen state error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, state)
}

// Select implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Select(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req attendance.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	state, err := h.screens.Select(r.Context(), session, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, state)
}

// Leave implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Leave(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	h.screens.Leave(session.ID)
	response.NoContent(w)
}

// ClockIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, attendance.ActionClockIn)
}

// ClockOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, attendance.ActionClockOut)
}

func (h *AttendanceHandlerImpl) clockAction(w http.ResponseWriter, r *http.Request, action attendance.Action) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req attendance.ClockActionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	var (
		state attendance.ScreenState
		err   error
	)
	switch action {
	case attendance.ActionClockIn:
		state, err = h.screens.ClockIn(r.Context(), session, req)
	case attendance.ActionClockOut:
		state, err = h.screens.ClockOut(r.Context(), session, req)
	default:
		err = attendance.ErrUnknownAction
	}
	if err != nil {
		h.logger.Warn("Clock action error", "action", action, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, state.Message, state)
}

// Roster implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Roster(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var departmentID *string
	if v := strings.TrimSpace(r.URL.Query().Get("department_id")); v != "" {
		departmentID = &v
	}

	roster, err := h.screens.Roster(r.Context(), session, departmentID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, roster)
}

// Live streams the attendance screen over SSE. It pushes the state on open
// and after every change, and a tick while the target is clocked in. The
// tick timer only exists while a session is running and is released when
// the client goes away.
func (h *AttendanceHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	rc := http.NewResponseController(w)

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(session.ID)
	defer cleanup()

	var (
		ticker clock.Ticker
		tickC  <-chan time.Time
	)
	syncTicker := func(phase string) {
		live := phase == string(attendance.PhaseClockedIn)
		switch {
		case live && ticker == nil:
			ticker = h.clock.NewTicker(h.tickInterval)
			tickC = ticker.C()
		case !live && ticker != nil:
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	pushState := func() error {
		state, err := h.screens.State(ctx, session)
		if errors.Is(err, attendance.ErrSelectionChanged) {
			// the newer selection publishes its own event
			return nil
		}
		if err != nil {
			h.logger.Warn("Live state error", "error", err)
			return h.writeEvent(w, rc, eventError, map[string]string{"message": err.Error()})
		}
		syncTicker(state.Phase)
		return h.writeEvent(w, rc, eventState, state)
	}

	if err := pushState(); err != nil {
		h.logger.Debug("Live stream write failed", "error", err)
		return
	}

	keepalive := time.NewTicker(h.keepaliveInterval)
	defer keepalive.Stop()

	for {
		var err error
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err = h.writeEvent(w, rc, event.Event, event.Data); err == nil {
				err = pushState()
			}

		case <-tickC:
			tick, ok := h.screens.Tick(session)
			if !ok {
				syncTicker("")
				continue
			}
			err = h.writeEvent(w, rc, eventTick, tick)

		case <-keepalive.C:
			err = h.writeEvent(w, rc, eventPing, map[string]int64{"timestamp": h.clock.Now().Unix()})

		case <-ctx.Done():
			return
		}
		if err != nil {
			h.logger.Debug("Live stream write failed", "error", err)
			return
		}
	}
}

func (h *AttendanceHandlerImpl) writeEvent(w http.ResponseWriter, rc *http.ResponseController, name string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	return rc.Flush()
}
