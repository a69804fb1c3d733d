package borrowers

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"bibler-backend/internal/platform/apierr"
	"bibler-backend/internal/platform/db"
)

type Store struct {
	db db.DBTX
}

func NewStore(q db.DBTX) *Store { return &Store{db: q} }

func (s *Store) Exists(ctx context.Context, key int64) (bool, error) {
	const q = `SELECT 1 FROM borrowers WHERE borrower_id = ?`
	var one int
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) Get(ctx context.Context, key int64) (*Borrower, error) {
	const q = `SELECT borrower_id, firstname, lastname, classname FROM borrowers WHERE borrower_id = ?`
	var b Borrower
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&b.Key, &b.Firstname, &b.Lastname, &b.Classname); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierr.ErrNotFound("user not found")
		}
		return nil, err
	}
	return &b, nil
}

// List orders by lastname, firstname, classname.
func (s *Store) List(ctx context.Context) ([]Borrower, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+Columns+` FROM borrowers u ORDER BY u.lastname, u.firstname, u.classname, u.borrower_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Borrower, 0, 64)
	if err := sqlx.StructScan(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, b Borrower) (int64, error) {
	const q = `INSERT INTO borrowers (firstname, lastname, classname) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, b.Firstname, b.Lastname, b.Classname)
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}

// Restore inserts b keeping its key.
func (s *Store) Restore(ctx context.Context, b Borrower) error {
	const q = `INSERT INTO borrowers (borrower_id, firstname, lastname, classname) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, b.Key, b.Firstname, b.Lastname, b.Classname)
	return mapWriteErr(err)
}

func (s *Store) Update(ctx context.Context, b Borrower) error {
	const q = `UPDATE borrowers SET firstname = ?, lastname = ?, classname = ? WHERE borrower_id = ?`
	res, err := s.db.ExecContext(ctx, q, b.Firstname, b.Lastname, b.Classname, b.Key)
	if err != nil {
		return mapWriteErr(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		ok, err := s.Exists(ctx, b.Key)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.ErrNotFound("user not found")
		}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM borrowers WHERE borrower_id = ?`, key)
	if err != nil {
		return mapWriteErr(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return apierr.ErrNotFound("user not found")
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM borrowers`).Scan(&n)
	return n, err
}

// ===== helpers =====

func mapWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsDuplicateKey(err):
		return apierr.ErrConflict("user already exists")
	case db.IsForeignKeyViolation(err):
		return apierr.ErrConflict("user is referenced by loans")
	default:
		return err
	}
}

func toNullString(s *string) (ns sql.NullString) {
	if s != nil && strings.TrimSpace(*s) != "" {
		ns.Valid, ns.String = true, strings.TrimSpace(*s)
	}
	return
}

func nullToPtr(ns sql.NullString) *string {
	if ns.Valid {
		v := ns.String
		return &v
	}
	return nil
}
