package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"bibler-backend/internal/platform/apierr"
	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/platform/db"
)

// ErrOpenLoanExists is returned by Insert when the book already has an open loan.
var ErrOpenLoanExists = apierr.ErrConflict("open loan exists for book")

type Store struct {
	db     db.DBTX
	driver string
	ids    clock.IDGen
}

// NewStore binds the ledger to a pool or a running transaction.
func NewStore(q db.DBTX, driver string) *Store {
	return &Store{db: q, driver: driver, ids: clock.ULIDGen{}}
}

const loanColumns = `loan_id, loan_ulid, book_id, borrower_id, start_date, expiration_date, return_date`

// Insert ignores l.Key, assigns a ULID when missing and returns the new key.
func (s *Store) Insert(ctx context.Context, l *Loan) (int64, error) {
	if l.ULID == "" {
		l.ULID = s.ids.NewULID(time.Now())
	}
	const q = `
		INSERT INTO loans (loan_ulid, book_id, borrower_id, start_date, expiration_date, return_date)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q,
		l.ULID, l.BookKey, l.BorrowerKey,
		db.NewDate(l.Start), db.NewDate(l.Expiration), nullDate(l.Return),
	)
	if err != nil {
		switch {
		case db.IsDuplicateKey(err):
			return 0, ErrOpenLoanExists
		case db.IsForeignKeyViolation(err):
			return 0, apierr.ErrNotFound("book or borrower not found")
		}
		return 0, fmt.Errorf("insert loan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	l.Key = id
	return id, nil
}

// FindOpenLoanForBook returns nil when the book is not lent out.
// On MySQL the row stays locked until the surrounding transaction ends.
func (s *Store) FindOpenLoanForBook(ctx context.Context, bookKey int64) (*Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE book_id = ? AND return_date IS NULL` + s.forUpdate()
	l, err := scanLoan(s.db.QueryRowContext(ctx, q, bookKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find open loan: %w", err)
	}
	return l, nil
}

func (s *Store) FindOpenLoansForBorrower(ctx context.Context, borrowerKey int64) ([]Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE borrower_id = ? AND return_date IS NULL ORDER BY expiration_date, loan_id`
	return s.queryLoans(ctx, q, borrowerKey)
}

func (s *Store) GetByULID(ctx context.Context, id string) (*Loan, error) {
	q := `SELECT ` + loanColumns + ` FROM loans WHERE loan_ulid = ?`
	l, err := scanLoan(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.ErrNotFound("loan not found")
	}
	return l, err
}

// SetReturnDate closes an open loan. Closed or unknown loans yield NotFound.
func (s *Store) SetReturnDate(ctx context.Context, loanKey int64, date time.Time) error {
	const q = `UPDATE loans SET return_date = ? WHERE loan_id = ? AND return_date IS NULL`
	return s.updateOpen(ctx, q, db.NewDate(date), loanKey)
}

// SetExpirationDate moves the due date of an open loan.
func (s *Store) SetExpirationDate(ctx context.Context, loanKey int64, date time.Time) error {
	const q = `UPDATE loans SET expiration_date = ? WHERE loan_id = ? AND return_date IS NULL`
	return s.updateOpen(ctx, q, db.NewDate(date), loanKey)
}

func (s *Store) updateOpen(ctx context.Context, q string, date db.Date, loanKey int64) error {
	res, err := s.db.ExecContext(ctx, q, date, loanKey)
	if err != nil {
		return fmt.Errorf("update loan %d: %w", loanKey, err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return apierr.ErrNotFound("open loan not found")
	}
	return nil
}

// ListOpenLoansJoined joins open loans with book and borrower, soonest due first.
func (s *Store) ListOpenLoansJoined(ctx context.Context) ([]OpenLoanView, error) {
	const q = `
		SELECT l.loan_id, l.loan_ulid, l.book_id, l.borrower_id, l.return_date, l.expiration_date, l.start_date,
		       b.title, b.author, b.category, b.isbn, b.number, b.shorthand,
		       u.firstname, u.lastname, u.classname
		FROM loans l
		JOIN books b ON b.book_id = l.book_id
		JOIN borrowers u ON u.borrower_id = l.borrower_id
		WHERE l.return_date IS NULL
		ORDER BY l.expiration_date, l.loan_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OpenLoanView, 0, 32)
	if err := sqlx.StructScan(rows, &out); err != nil {
		return nil, fmt.Errorf("scan open loans: %w", err)
	}
	return out, nil
}

func (s *Store) CountForBook(ctx context.Context, bookKey int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM loans WHERE book_id = ?`, bookKey)
}

func (s *Store) CountForBorrower(ctx context.Context, borrowerKey int64) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM loans WHERE borrower_id = ?`, borrowerKey)
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET
func (s *Store) List(ctx context.Context, f LoanFilter, p Page) ([]Loan, int64, error) {
	ds := db.Builder(s.driver).From("loans").Prepared(true).Where(filterExpr(f)...)

	// COUNT（ORDER BY より前までを再構築）
	cq, cargs, err := ds.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	total, err := s.count(ctx, cq, cargs...)
	if err != nil {
		return nil, 0, err
	}

	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	order := []exp.OrderedExpression{goqu.I("start_date").Desc(), goqu.I("loan_id").Desc()}
	if strings.ToLower(p.Order) == "asc" {
		order = []exp.OrderedExpression{goqu.I("start_date").Asc(), goqu.I("loan_id").Asc()}
	}
	q, args, err := ds.
		Select("loan_id", "loan_ulid", "book_id", "borrower_id", "start_date", "expiration_date", "return_date").
		Order(order...).
		Limit(uint(p.Limit)).
		Offset(uint(p.Offset)).
		ToSQL()
	if err != nil {
		return nil, 0, err
	}
	out, err := s.queryLoans(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func filterExpr(f LoanFilter) []exp.Expression {
	var w []exp.Expression
	if f.BookKey != nil {
		w = append(w, goqu.C("book_id").Eq(*f.BookKey))
	}
	if f.BorrowerKey != nil {
		w = append(w, goqu.C("borrower_id").Eq(*f.BorrowerKey))
	}
	if f.Open != nil {
		if *f.Open {
			w = append(w, goqu.C("return_date").IsNull())
		} else {
			w = append(w, goqu.C("return_date").IsNotNull())
		}
	}
	if f.OverdueAsOf != nil {
		w = append(w,
			goqu.C("return_date").IsNull(),
			goqu.C("expiration_date").Lt(clock.FormatDate(*f.OverdueAsOf)),
		)
	}
	return w
}

// ===== helpers =====

func (s *Store) forUpdate() string {
	if s.driver == db.DriverMySQL {
		return ` FOR UPDATE`
	}
	// sqlite は単一コネクションで直列化済み
	return ``
}

func (s *Store) count(ctx context.Context, q string, args ...any) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count loans: %w", err)
	}
	return n, nil
}

func (s *Store) queryLoans(ctx context.Context, q string, args ...any) ([]Loan, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	out := make([]Loan, 0, 16)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanLoan(r scanner) (*Loan, error) {
	var (
		l        Loan
		start    db.Date
		expires  db.Date
		returned db.NullDate
	)
	if err := r.Scan(&l.Key, &l.ULID, &l.BookKey, &l.BorrowerKey, &start, &expires, &returned); err != nil {
		return nil, err
	}
	l.Start, l.Expiration, l.Return = start.Time, expires.Time, returned.Ptr()
	return &l, nil
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return db.NewDate(*t)
}
