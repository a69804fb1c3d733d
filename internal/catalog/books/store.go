package books

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

// NewStore binds the store to a pool or to a running transaction.
func NewStore(q db.DBTX) *Store { return &Store{db: q} }

// Exists: 指定キーの本が存在するか
func (s *Store) Exists(ctx context.Context, key int64) (bool, error) {
	const q = `SELECT 1 FROM books WHERE book_id = ?`
	var one int
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) Get(ctx context.Context, key int64) (*Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+Columns+` FROM books b WHERE b.book_id = ?`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	if err := sqlx.StructScan(rows, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apierr.ErrNotFound("book not found")
	}
	return &out[0], nil
}

// List returns every book ordered by key, optionally restricted to one category.
func (s *Store) List(ctx context.Context, category string) ([]Book, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + Columns + ` FROM books b`)
	var args []any
	if category != "" {
		sb.WriteString(` WHERE b.category = ?`)
		args = append(args, category)
	}
	sb.WriteString(` ORDER BY b.book_id`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Book, 0, 64)
	if err := sqlx.StructScan(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts b with a system-assigned key and returns it.
func (s *Store) Create(ctx context.Context, b Book) (int64, error) {
	const q = `
		INSERT INTO books (title, author, publisher, number, shorthand, category, isbn)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, b.Title, b.Author, b.Publisher, b.Number, b.Shorthand, b.Category, b.ISBN)
	if err != nil {
		return 0, mapWriteErr(err)
	}
	return res.LastInsertId()
}

// Restore inserts b keeping its key. Used for fixtures and seeding.
func (s *Store) Restore(ctx context.Context, b Book) error {
	const q = `
		INSERT INTO books (book_id, title, author, publisher, number, shorthand, category, isbn)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, b.Key, b.Title, b.Author, b.Publisher, b.Number, b.Shorthand, b.Category, b.ISBN)
	return mapWriteErr(err)
}

func (s *Store) Update(ctx context.Context, b Book) error {
	const q = `
		UPDATE books
		SET title = ?, author = ?, publisher = ?, number = ?, shorthand = ?, category = ?, isbn = ?
		WHERE book_id = ?`
	res, err := s.db.ExecContext(ctx, q, b.Title, b.Author, b.Publisher, b.Number, b.Shorthand, b.Category, b.ISBN, b.Key)
	if err != nil {
		return mapWriteErr(err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		// MySQL は値が変わらない UPDATE で 0 を返す
		ok, err := s.Exists(ctx, b.Key)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.ErrNotFound("book not found")
		}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE book_id = ?`, key)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apierr.ErrConflict("book is referenced by loans")
		}
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return apierr.ErrNotFound("book not found")
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}

// ===== helpers =====

func mapWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsDuplicateKey(err):
		return apierr.ErrConflict("book number already exists")
	case db.IsForeignKeyViolation(err):
		return apierr.ErrConflict("unknown category")
	default:
		return err
	}
}

func toNullString(s *string) (ns sql.NullString) {
	if s != nil && strings.TrimSpace(*s) != "" {
		ns.Valid, ns.String = true, *s
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
