package identity

import "context"

// Authenticator exchanges credentials with the backend.
type Authenticator interface {
	Login(ctx context.Context, req LoginRequest) (Credentials, error)
}

// AuthService owns the session lifecycle.
type AuthService interface {
	// Login authenticates against the backend and persists a new session
	Login(ctx context.Context, req LoginRequest) (Session, error)

	// Resolve loads a persisted session; expired sessions are deleted and reported as ErrSessionExpired
	Resolve(ctx context.Context, sessionID string) (Session, error)

	// Logout clears the session
	Logout(ctx context.Context, sessionID string) error

	// PurgeExpired removes expired sessions
	PurgeExpired(ctx context.Context) (int64, error)
}
