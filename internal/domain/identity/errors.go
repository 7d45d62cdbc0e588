package identity

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session has expired")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnknownRole        = errors.New("account has no console role")
)
