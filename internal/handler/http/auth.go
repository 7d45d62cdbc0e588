package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/access"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/attendance"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/handler/http/response"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/jwt"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService  jwt.Service
	authService identity.AuthService
	screens     attendance.ScreenService
	logger      *slog.Logger
}

func NewAuthHandler(jwtService jwt.Service, authService identity.AuthService, screens attendance.ScreenService, logger *slog.Logger) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:  jwtService,
		authService: authService,
		screens:     screens,
		logger:      logger,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq identity.LoginRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		a.logger.Warn("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	session, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		a.logger.Warn("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// A login from an already signed-in browser replaces the old session
	if previous := identity.SessionFromContext(r.Context()); previous != nil {
		a.screens.Leave(previous.ID)
		if err := a.authService.Logout(r.Context(), previous.ID); err != nil {
			a.logger.Warn("failed to drop replaced session", "error", err)
		}
	}

	token, err := a.jwtService.GenerateSessionToken(session.ID, session.ExpiresAt)
	if err != nil {
		a.logger.Error("Login token error", "error", err)
		response.InternalServerError(w, "Failed to start session")
		return
	}

	// Success response
	http.SetCookie(w, a.jwtService.SessionCookie(token, session.ExpiresAt))
	a.logger.Info("User logged in successfully", "role", session.Role.String())
	response.Created(w, "Logged in successfully", identity.LoginResponse{
		Me:       newMeResponse(&session, session.Context(session.CreatedAt)),
		Redirect: access.HomePath,
	})
}

// Logout implements AuthHandler. It succeeds without a session too.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if session := identity.SessionFromContext(r.Context()); session != nil {
		a.screens.Leave(session.ID)
		if err := a.authService.Logout(r.Context(), session.ID); err != nil {
			a.logger.Error("Logout service error", "error", err)
			response.HandleError(w, err)
			return
		}
	}

	http.SetCookie(w, a.jwtService.ClearSessionCookie())
	response.SuccessWithMessage(w, "Logged out successfully", map[string]string{"redirect": access.LoginPath})
}

// Me implements AuthHandler. Anonymous callers get is_authenticated=false.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	ic := identity.FromContext(r.Context())
	response.Success(w, newMeResponse(identity.SessionFromContext(r.Context()), ic))
}

func newMeResponse(session *identity.Session, ic identity.Context) identity.MeResponse {
	me := identity.MeResponse{
		IsAuthenticated: ic.IsAuthenticated,
		Role:            ic.Role.String(),
		EmployeeID:      ic.EmployeeID,
	}
	if session != nil && ic.IsAuthenticated {
		me.Email = session.Email
		me.ExpiresAt = session.ExpiresAt.Format(time.RFC3339)
	}
	return me
}
