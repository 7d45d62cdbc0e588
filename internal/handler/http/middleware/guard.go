package middleware

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/access"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/handler/http/response"
)

// Surface selects how a guard refusal is delivered.
type Surface int

const (
	// Page routes redirect and render the denial view.
	Page Surface = iota
	// API routes answer with JSON errors carrying the login URL.
	API
)

// RequireGroup guards every route below it with the access policy of group.
func RequireGroup(group access.RouteGroup, surface Surface, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ic := identity.FromContext(r.Context())
			d := access.Decide(ic, group)
			guardDecisionsTotal.WithLabelValues(string(group), d.Outcome()).Inc()

			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			logger.DebugContext(r.Context(), "navigation refused",
				"path", r.URL.Path,
				"group", group,
				"reason", d.Reason,
				"role", ic.Role.String(),
			)

			switch surface {
			case Page:
				refusePage(w, r, d)
			default:
				refuseAPI(w, d)
			}
		})
	}
}

func refusePage(w http.ResponseWriter, r *http.Request, d access.Decision) {
	if d.Redirect != "" {
		http.Redirect(w, r, d.Redirect, http.StatusFound)
		return
	}
	denied := &access.DeniedError{Role: d.Role, Required: d.Required}
	response.Denied(w, "You do not have access to this page", response.NewDeniedView(r.URL.Path, sameOriginBack(r), denied))
}

func refuseAPI(w http.ResponseWriter, d access.Decision) {
	if d.Reason == access.ReasonUnauthenticated {
		response.LoginRequired(w, d.Redirect)
		return
	}
	response.HandleError(w, d.Err())
}

// sameOriginBack returns the referring path when it points at this console.
func sameOriginBack(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || ref.Path == r.URL.Path {
		return ""
	}
	if ref.Host != "" && ref.Host != r.Host {
		return ""
	}
	return ref.Path
}
