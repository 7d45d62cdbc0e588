package http

import (
	"log/slog"
	"net/http"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/access"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/attendance"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/handler/http/response"
)

// PageView describes one console screen: what it is, who is looking at it,
// and where they may navigate next.
type PageView struct {
	Screen     access.Screen           `json:"screen"`
	Me         identity.MeResponse     `json:"me"`
	Navigation []access.Screen         `json:"navigation"`
	Attendance *attendance.ScreenState `json:"attendance,omitempty"`
	Notice     string                  `json:"notice,omitempty"`
}

type PageHandler interface {
	Show(screen access.Screen) http.HandlerFunc
}

type PageHandlerImpl struct {
	screens attendance.ScreenService
	logger  *slog.Logger
}

func NewPageHandler(screens attendance.ScreenService, logger *slog.Logger) PageHandler {
	return &PageHandlerImpl{screens: screens, logger: logger}
}

// Show renders screen. The attendance screen embeds its initial state;
// opening any other screen leaves the attendance screen, which drops the
// selection and cancels its loads.
func (p *PageHandlerImpl) Show(screen access.Screen) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ic := identity.FromContext(ctx)
		session := identity.SessionFromContext(ctx)

		view := PageView{
			Screen:     screen,
			Me:         newMeResponse(session, ic),
			Navigation: access.Reachable(ic),
		}

		if session != nil {
			if screen.Name == "attendance" {
				state, err := p.screens.State(ctx, *session)
				if err != nil {
					p.logger.Warn("Attendance page state error", "error", err)
					view.Notice = "Attendance could not be loaded, try again"
				} else {
					view.Attendance = &state
				}
			} else {
				p.screens.Leave(session.ID)
			}
		}

		response.Success(w, view)
	}
}
