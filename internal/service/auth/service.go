package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/clock"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/validator"
	"github.com/google/uuid"
)

type AuthServiceImpl struct {
	authenticator identity.Authenticator
	store         identity.SessionStore
	clock         clock.Clock
	maxLifetime   time.Duration
	logger        *slog.Logger
}

// NewAuthService creates the session lifecycle service. Sessions end at the
// backend token's expiry or after maxLifetime, whichever comes first.
func NewAuthService(
	authenticator identity.Authenticator,
	store identity.SessionStore,
	clk clock.Clock,
	maxLifetime time.Duration,
	logger *slog.Logger,
) identity.AuthService {
	return &AuthServiceImpl{
		authenticator: authenticator,
		store:         store,
		clock:         clk,
		maxLifetime:   maxLifetime,
		logger:        logger.With(slog.String("component", "auth_service")),
	}
}

// Login implements identity.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req identity.LoginRequest) (identity.Session, error) {
	if err := req.Validate(); err != nil {
		return identity.Session{}, err
	}

	creds, err := s.authenticator.Login(ctx, req)
	if err != nil {
		return identity.Session{}, err
	}

	now := s.clock.Now()
	expiresAt := creds.ExpiresAt
	if s.maxLifetime > 0 && now.Add(s.maxLifetime).Before(expiresAt) {
		expiresAt = now.Add(s.maxLifetime)
	}
	if !expiresAt.After(now) {
		return identity.Session{}, identity.ErrSessionExpired
	}

	id, err := uuid.NewV7()
	if err != nil {
		return identity.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	session := identity.Session{
		ID:          id.String(),
		Email:       creds.Email,
		Role:        creds.Role,
		EmployeeID:  creds.EmployeeID,
		AccessToken: creds.AccessToken,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return identity.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	if session.Role == identity.RoleNone {
		s.logger.Warn("Login without a console role", "session_id", session.ID)
	}
	s.logger.Info("Session created", "session_id", session.ID, "role", session.Role.String())

	return session, nil
}

// Resolve implements identity.AuthService.
func (s *AuthServiceImpl) Resolve(ctx context.Context, sessionID string) (identity.Session, error) {
	if !validator.IsValidUUID(sessionID) {
		return identity.Session{}, identity.ErrSessionNotFound
	}

	session, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return identity.Session{}, err
	}

	if session.IsExpired(s.clock.Now()) {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("Failed to delete expired session", "session_id", sessionID, "error", err)
		}
		return identity.Session{}, identity.ErrSessionExpired
	}

	return session, nil
}

// Logout implements identity.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, identity.ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("Session cleared", "session_id", sessionID)
	return nil
}

// PurgeExpired implements identity.AuthService.
func (s *AuthServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx, s.clock.Now())
}
