package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/handler/http/response"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/clock"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/jwt"
)

// Session binds the stored session referenced by the session cookie to the
// request context. It runs after jwtauth.Verify and never rejects a request:
// without a valid session the request continues as anonymous and the guard
// decides what to do with it.
func Session(jwtService jwt.Service, authService identity.AuthService, clk clock.Clock, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID, err := jwtService.SessionIDFromContext(ctx)
			if err != nil {
				if jwtService.TokenFromCookie(r) != "" {
					http.SetCookie(w, jwtService.ClearSessionCookie())
				}
				next.ServeHTTP(w, r.WithContext(identity.WithSession(ctx, nil, identity.Anonymous)))
				return
			}

			session, err := authService.Resolve(ctx, sessionID)
			switch {
			case err == nil:
			case errors.Is(err, identity.ErrSessionNotFound),
				errors.Is(err, identity.ErrSessionExpired),
				errors.Is(err, identity.ErrInvalidToken):
				http.SetCookie(w, jwtService.ClearSessionCookie())
				next.ServeHTTP(w, r.WithContext(identity.WithSession(ctx, nil, identity.Anonymous)))
				return
			default:
				logger.ErrorContext(ctx, "failed to resolve session", "error", err)
				response.InternalServerError(w, "Failed to load session")
				return
			}

			ic := session.Context(clk.Now())
			next.ServeHTTP(w, r.WithContext(identity.WithSession(ctx, &session, ic)))
		}
		return http.HandlerFunc(hfn)
	}
}
