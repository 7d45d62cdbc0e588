package identity

import (
	"context"
	"time"
)

// SessionStore persists role contexts across console restarts.
type SessionStore interface {
	// Create stores a new session
	Create(ctx context.Context, session Session) error

	// GetByID returns ErrSessionNotFound for unknown or deleted sessions
	GetByID(ctx context.Context, id string) (Session, error)

	// Delete removes the session (logout). Deleting twice is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteExpired removes sessions that expired before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
