package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/access"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/handler/http/middleware"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/clock"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewLogger builds the ECS formatted JSON logger shared by the request
// logger and the services.
func NewLogger(w io.Writer, level slog.Level, app, version, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app),
		slog.String("version", version),
		slog.String("env", env),
	)
}

type RouterDeps struct {
	JWTService        jwt.Service
	AuthService       identity.AuthService
	Clock             clock.Clock
	Logger            *slog.Logger
	AllowedOrigins    []string
	AuthHandler       AuthHandler
	AttendanceHandler AttendanceHandler
	PageHandler       PageHandler
}

func NewRouter(d RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logger := d.Logger

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/metrics" || req.URL.Path == "/ping"
		},
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler())

	// Everything below knows who is asking
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verify(d.JWTService.JWTAuth(), d.JWTService.TokenFromCookie))
		r.Use(middleware.Session(d.JWTService, d.AuthService, d.Clock, logger))

		// Pages, one guard per route group
		for _, screen := range access.Screens {
			r.With(middleware.RequireGroup(screen.Group, middleware.Page, logger)).
				Get(screen.Path, d.PageHandler.Show(screen))
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", d.AuthHandler.Login)
				r.Post("/logout", d.AuthHandler.Logout)
				r.Get("/me", d.AuthHandler.Me)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Use(middleware.RequireGroup(access.GroupEveryone, middleware.API, logger))

				r.Get("/screen", d.AttendanceHandler.Screen)
				r.Put("/screen/selection", d.AttendanceHandler.Select)
				r.Delete("/screen", d.AttendanceHandler.Leave)
				r.Post("/clock-in", d.AttendanceHandler.ClockIn)
				r.Post("/clock-out", d.AttendanceHandler.ClockOut)
				r.Get("/live", d.AttendanceHandler.Live)

				// Managers and admins only
				r.With(middleware.RequireGroup(access.GroupStaff, middleware.API, logger)).
					Get("/roster", d.AttendanceHandler.Roster)
			})
		})
	})

	return r
}
