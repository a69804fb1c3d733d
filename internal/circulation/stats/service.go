package stats

import (
	"context"
	"database/sql"

	"bibler-backend/internal/catalog/books"
	"bibler-backend/internal/circulation/ledger"
	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/platform/db"
)

type Service struct {
	db     *sql.DB
	driver string
	store  *Store
	clock  clock.Clock
}

func NewService(conn *sql.DB, driver string) *Service {
	return &Service{db: conn, driver: driver, store: NewStore(conn, driver), clock: clock.Real{}}
}

// Counts is one consistent reading of every counter.
type Counts struct {
	Open        int64
	Overdue     int64
	OpenOverdue int64
	Books       int64
	Borrowers   int64
}

// Snapshot reads all counters inside a single read-only transaction.
func (s *Service) Snapshot(ctx context.Context) (Counts, error) {
	var c Counts
	today := clock.Today(s.clock)
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		st := NewStore(tx, s.driver)
		var err error
		if c.Open, err = st.OpenCount(ctx); err != nil {
			return err
		}
		if c.Overdue, err = st.OverdueCount(ctx, today); err != nil {
			return err
		}
		if c.OpenOverdue, err = st.OpenOverdueCount(ctx, today); err != nil {
			return err
		}
		if c.Books, err = st.BookCount(ctx); err != nil {
			return err
		}
		c.Borrowers, err = st.BorrowerCount(ctx)
		return err
	})
	return c, err
}

// WithClock swaps the time source. Tests only.
func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

// GET /stats/books/borrowed
func (s *Service) OpenCount(ctx context.Context) (int64, error) { return s.store.OpenCount(ctx) }

// GET /stats/books/overdue
// Closed loans that were returned late are still counted.
func (s *Service) OverdueCount(ctx context.Context) (int64, error) {
	return s.store.OverdueCount(ctx, clock.Today(s.clock))
}

// GET /stats/books/overdue/open
func (s *Service) OpenOverdueCount(ctx context.Context) (int64, error) {
	return s.store.OpenOverdueCount(ctx, clock.Today(s.clock))
}

// GET /stats/books/count
func (s *Service) BookCount(ctx context.Context) (int64, error) { return s.store.BookCount(ctx) }

// GET /stats/users/count
func (s *Service) BorrowerCount(ctx context.Context) (int64, error) {
	return s.store.BorrowerCount(ctx)
}

// GET /books/available
func (s *Service) AvailableBooks(ctx context.Context) ([]books.Book, error) {
	return s.store.AvailableBooks(ctx)
}

// GET /books?user_key=
func (s *Service) BooksForBorrower(ctx context.Context, borrowerKey int64) ([]books.Book, error) {
	return s.store.BooksForBorrower(ctx, borrowerKey)
}

// GET /users (borrowed_books)
func (s *Service) ActiveLoanCounts(ctx context.Context) (map[int64]int64, error) {
	return s.store.ActiveLoanCounts(ctx)
}

// GET /book/borrowed/:book_key
func (s *Service) IsBorrowed(ctx context.Context, bookKey int64) (bool, error) {
	return s.store.IsBorrowed(ctx, bookKey)
}

// GET /users/borrowing
func (s *Service) OpenLoans(ctx context.Context) ([]ledger.OpenLoanView, error) {
	var out []ledger.OpenLoanView
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		var err error
		out, err = ledger.NewStore(tx, s.driver).ListOpenLoansJoined(ctx)
		return err
	})
	return out, err
}
