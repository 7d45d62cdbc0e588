package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/domain/identity"
	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type sessionRepositoryImpl struct {
	db *database.DB
}

// NewSessionRepository creates the PostgreSQL-backed identity.SessionStore.
func NewSessionRepository(db *database.DB) identity.SessionStore {
	return &sessionRepositoryImpl{db: db}
}

// Create inserts the session and drops the same user's expired sessions in one transaction.
func (s *sessionRepositoryImpl) Create(ctx context.Context, session identity.Session) error {
	return WithTransaction(ctx, s.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, s.db)

		_, err := q.Exec(ctx, `
			DELETE FROM console_sessions
			WHERE email = $1 AND expires_at <= $2
		`, session.Email, session.CreatedAt)
		if err != nil {
			return fmt.Errorf("delete expired sessions for %s: %w", session.Email, err)
		}

		_, err = q.Exec(ctx, `
			INSERT INTO console_sessions (id, email, role, employee_id, access_token, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			session.ID,
			session.Email,
			string(session.Role),
			nullableString(session.EmployeeID),
			session.AccessToken,
			session.ExpiresAt.UTC(),
			session.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
}

func (s *sessionRepositoryImpl) GetByID(ctx context.Context, id string) (identity.Session, error) {
	q := GetQuerier(ctx, s.db)

	var (
		session    identity.Session
		role       string
		employeeID *string
	)
	err := q.QueryRow(ctx, `
		SELECT id::text, email, role, employee_id, access_token, expires_at, created_at
		FROM console_sessions
		WHERE id = $1
	`, id).Scan(
		&session.ID,
		&session.Email,
		&role,
		&employeeID,
		&session.AccessToken,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.Session{}, identity.ErrSessionNotFound
		}
		return identity.Session{}, fmt.Errorf("get session: %w", err)
	}

	session.Role = identity.ParseRole(role)
	if employeeID != nil {
		session.EmployeeID = *employeeID
	}
	return session, nil
}

func (s *sessionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, s.db)
	_, err := q.Exec(ctx, `DELETE FROM console_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *sessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, s.db)
	tag, err := q.Exec(ctx, `DELETE FROM console_sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
