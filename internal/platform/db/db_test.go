package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibler-backend/internal/platform/db"
	"bibler-backend/internal/platform/db/dbtest"
)

func TestMigrate_IsIdempotent(t *testing.T) {
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nested", "x.db"))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, conn, db.DriverSQLite))
	require.NoError(t, db.Migrate(ctx, conn, db.DriverSQLite))

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='ux_loans_open_book'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func seedBookAndBorrower(t *testing.T) *sql.DB {
	conn := dbtest.Open(t)
	dbtest.Exec(t, conn, `INSERT INTO categories(name, color) VALUES ('Fantasy', '#00f')`)
	dbtest.Exec(t, conn, `INSERT INTO books(book_id, title, author, publisher, number, shorthand, category) VALUES (1, 'Sabriel', 'Garth Nix', 'Carlsen', 1, 'Car', 'Fantasy')`)
	dbtest.Exec(t, conn, `INSERT INTO borrowers(borrower_id, firstname, lastname) VALUES (1, 'Lukas', 'Schmidt')`)
	return conn
}

func TestIsDuplicateKey_OpenLoanIndex(t *testing.T) {
	c := seedBookAndBorrower(t)
	ctx := context.Background()

	const ins = `INSERT INTO loans(loan_ulid, book_id, borrower_id, start_date, expiration_date) VALUES (?, 1, 1, '2024-01-01', '2024-01-22')`
	_, err := c.ExecContext(ctx, ins, "A")
	require.NoError(t, err)

	_, err = c.ExecContext(ctx, ins, "B")
	require.Error(t, err)
	assert.True(t, db.IsDuplicateKey(err))
	assert.False(t, db.IsForeignKeyViolation(err))

	// closing the first loan frees the book
	_, err = c.ExecContext(ctx, `UPDATE loans SET return_date='2024-01-05' WHERE loan_ulid='A'`)
	require.NoError(t, err)
	_, err = c.ExecContext(ctx, ins, "B")
	assert.NoError(t, err)
}

func TestIsForeignKeyViolation(t *testing.T) {
	c := seedBookAndBorrower(t)

	_, err := c.ExecContext(context.Background(),
		`INSERT INTO loans(loan_ulid, book_id, borrower_id, start_date, expiration_date) VALUES ('X', 99, 1, '2024-01-01', '2024-01-22')`)
	require.Error(t, err)
	assert.True(t, db.IsForeignKeyViolation(err))
	assert.False(t, db.IsDuplicateKey(err))
}

func TestClassifiers_IgnoreOtherErrors(t *testing.T) {
	assert.False(t, db.IsDuplicateKey(errors.New("boom")))
	assert.False(t, db.IsForeignKeyViolation(nil))
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	c := seedBookAndBorrower(t)
	ctx := context.Background()

	want := errors.New("abort")
	err := db.RunInTx(ctx, c, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories(name) VALUES ('Krimi')`); err != nil {
			return err
		}
		return want
	})
	assert.ErrorIs(t, err, want)

	var n int
	require.NoError(t, c.QueryRow(`SELECT COUNT(*) FROM categories WHERE name='Krimi'`).Scan(&n))
	assert.Zero(t, n)
}

func TestSplitStatements(t *testing.T) {
	got := db.SplitStatements("-- comment; here\nCREATE TABLE a (x INT);\n\n  ;CREATE INDEX i ON a(x);")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a(x)"}, got)
}
