package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/config"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	appHTTP "github.com/ImranNursandi/attendance-system-frontend-sub000/internal/handler/http"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/backend"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/clock"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/cron"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/database"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/jwt"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/sse"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/repository/memory"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/repository/postgresql"
	attendanceService "github.com/ImranNursandi/attendance-system-frontend-sub000/internal/service/attendance"
	serviceAuth "github.com/ImranNursandi/attendance-system-frontend-sub000/internal/service/auth"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "console:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := appHTTP.NewLogger(os.Stdout, level, "attendance-console", cfg.App.Version, cfg.App.Env)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.New(loc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store
	var sessionStore identity.SessionStore
	if cfg.HasDatabase() {
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		sessionStore = postgresql.NewSessionRepository(db)
		logger.Info("sessions stored in postgresql", "host", cfg.Database.Host)
	} else {
		sessionStore = memory.NewSessionStore()
		logger.Warn("DB_HOST not set, sessions are kept in memory")
	}

	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, loc, logger)
	jwtService := jwt.NewJWTService(cfg.Session.Secret, cfg.Session.CookieSecure)
	hub := sse.NewHub()

	authService := serviceAuth.NewAuthService(backendClient, sessionStore, clk, cfg.Session.MaxLifetime, logger)
	screenService := attendanceService.NewScreenService(backendClient, hub, clk, attendanceService.Options{
		MaxScreens: cfg.Screen.MaxScreens,
		ScreenTTL:  cfg.Screen.TTL,
	}, logger)

	router := appHTTP.NewRouter(appHTTP.RouterDeps{
		JWTService:        jwtService,
		AuthService:       authService,
		Clock:             clk,
		Logger:            logger,
		AllowedOrigins:    cfg.App.AllowedOrigins,
		AuthHandler:       appHTTP.NewAuthHandler(jwtService, authService, screenService, logger),
		AttendanceHandler: appHTTP.NewAttendanceHandler(screenService, hub, clk, cfg.Screen.TickInterval, logger),
		PageHandler:       appHTTP.NewPageHandler(screenService, logger),
	})

	scheduler := cron.NewScheduler(clk, logger)
	scheduler.AddJob("session_purge", cfg.Session.PurgeInterval, cron.NewSessionPurgeJob(authService, logger).Run)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", server.Addr, "backend", cfg.Backend.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
