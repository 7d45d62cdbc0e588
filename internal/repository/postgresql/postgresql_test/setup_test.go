package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ImranNursandi/attendance-system-frontend-sub000/internal/pkg/database"
)

// TestDatabaseSetup initialises the test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// ok is false when no test database is configured.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, 4)
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	setup = &TestDatabaseSetup{DB: db}
	if err := setup.migrate(ctx); err != nil {
		db.Close()
		return nil, true, err
	}
	return setup, true, nil
}

func (t *TestDatabaseSetup) migrate(ctx context.Context) error {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")

	matches, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		sql, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := t.DB.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// TruncateAllTables clears every console table
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"console_sessions",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
