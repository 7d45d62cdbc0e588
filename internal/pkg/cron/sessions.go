package cron

import (
	"context"
	"log/slog"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
)

// SessionPurgeJob deletes expired console sessions from the store
type SessionPurgeJob struct {
	authService identity.AuthService
	logger      *slog.Logger
}

func NewSessionPurgeJob(authService identity.AuthService, logger *slog.Logger) *SessionPurgeJob {
	return &SessionPurgeJob{
		authService: authService,
		logger:      logger.With(slog.String("component", "session_purge")),
	}
}

// Run implements the cron job signature
func (j *SessionPurgeJob) Run(ctx context.Context) error {
	purged, err := j.authService.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if purged > 0 {
		j.logger.Info("Expired sessions purged", "count", purged)
	}
	return nil
}
