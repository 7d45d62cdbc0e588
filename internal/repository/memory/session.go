// Package memory holds in-process stores for local runs without PostgreSQL.
// Sessions do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]identity.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]identity.Session)}
}

var _ identity.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Create(_ context.Context, session identity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) GetByID(_ context.Context, id string) (identity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return identity.Session{}, identity.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for id, session := range s.sessions {
		if session.IsExpired(now) {
			delete(s.sessions, id)
			purged++
		}
	}
	return purged, nil
}

// Len is the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
