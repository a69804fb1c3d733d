package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"bibler-backend/internal/catalog/books"
	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/platform/db"
)

// Store runs read-only projections directly against loans and catalog tables.
type Store struct {
	db     db.DBTX
	driver string
}

func NewStore(q db.DBTX, driver string) *Store { return &Store{db: q, driver: driver} }

func (s *Store) OpenCount(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM loans WHERE return_date IS NULL`)
}

// OverdueCount counts every loan, closed ones included, whose expiration lies before today.
func (s *Store) OverdueCount(ctx context.Context, today time.Time) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM loans WHERE expiration_date < ?`, clock.FormatDate(today))
}

// OpenOverdueCount counts open loans past their expiration.
func (s *Store) OpenOverdueCount(ctx context.Context, today time.Time) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM loans WHERE return_date IS NULL AND expiration_date < ?`, clock.FormatDate(today))
}

func (s *Store) BookCount(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM books`)
}

func (s *Store) BorrowerCount(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM borrowers`)
}

func (s *Store) IsBorrowed(ctx context.Context, bookKey int64) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM loans WHERE book_id = ? AND return_date IS NULL`, bookKey)
	return n > 0, err
}

// AvailableBooks lists books without an open loan.
func (s *Store) AvailableBooks(ctx context.Context) ([]books.Book, error) {
	d := db.Builder(s.driver)
	lent := d.From("loans").Select("book_id").Where(goqu.C("return_date").IsNull())
	q, args, err := d.From(goqu.T("books").As("b")).
		Prepared(true).
		Select(bookColumns()...).
		Where(goqu.I("b.book_id").NotIn(lent)).
		Order(goqu.I("b.book_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return s.queryBooks(ctx, q, args...)
}

// BooksForBorrower lists books the borrower currently holds.
func (s *Store) BooksForBorrower(ctx context.Context, borrowerKey int64) ([]books.Book, error) {
	q, args, err := db.Builder(s.driver).From(goqu.T("books").As("b")).
		Prepared(true).
		Select(bookColumns()...).
		Join(goqu.T("loans").As("l"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.book_id")))).
		Where(
			goqu.I("l.borrower_id").Eq(borrowerKey),
			goqu.I("l.return_date").IsNull(),
		).
		Order(goqu.I("l.expiration_date").Asc(), goqu.I("b.book_id").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return s.queryBooks(ctx, q, args...)
}

// ActiveLoanCounts maps borrower key to number of open loans. Borrowers without loans are absent.
func (s *Store) ActiveLoanCounts(ctx context.Context) (map[int64]int64, error) {
	const q = `SELECT borrower_id, COUNT(*) FROM loans WHERE return_date IS NULL GROUP BY borrower_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]int64{}
	for rows.Next() {
		var k, n int64
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}

// ===== helpers =====

func bookColumns() []any {
	return []any{
		goqu.I("b.book_id"), goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.publisher"),
		goqu.I("b.number"), goqu.I("b.shorthand"), goqu.I("b.category"), goqu.I("b.isbn"),
	}
}

func (s *Store) queryBooks(ctx context.Context, q string, args ...any) ([]books.Book, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]books.Book, 0, 32)
	if err := sqlx.StructScan(rows, &out); err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	return out, nil
}

func (s *Store) count(ctx context.Context, q string, args ...any) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
