// Package dbtest opens throwaway sqlite databases for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bibler-backend/internal/platform/db"
)

// Open returns a migrated sqlite database living in t.TempDir.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "bibler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, db.DriverSQLite))
	return conn
}

// Exec runs raw fixture SQL.
func Exec(t *testing.T, conn *sql.DB, q string, args ...any) {
	t.Helper()
	_, err := conn.ExecContext(context.Background(), q, args...)
	require.NoError(t, err)
}
