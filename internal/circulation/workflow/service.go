package workflow

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"bibler-backend/internal/circulation/ledger"
	"bibler-backend/internal/platform/apierr"
	"bibler-backend/internal/platform/clock"
	"bibler-backend/internal/platform/db"
)

// Catalog answers existence questions on the handle it is given.
type Catalog interface {
	BookExists(ctx context.Context, q db.DBTX, key int64) (bool, error)
	BorrowerExists(ctx context.Context, q db.DBTX, key int64) (bool, error)
}

// -------------- Service --------------

type Service struct {
	db      *sql.DB
	driver  string
	catalog Catalog
	clock   clock.Clock
}

func NewService(conn *sql.DB, driver string, catalog Catalog) *Service {
	return &Service{db: conn, driver: driver, catalog: catalog, clock: clock.Real{}}
}

// WithClock swaps the time source. Tests only.
func (s *Service) WithClock(c clock.Clock) *Service {
	s.clock = c
	return s
}

type Result struct {
	Status     Status `json:"status"`
	ReturnDate string `json:"return_date,omitempty"` // YYYY-MM-DD
}

// PATCH /borrow/:user_key/:book_key
func (s *Service) Borrow(ctx context.Context, userKey, bookKey int64, weeks int) (Result, error) {
	cmd := s.command(userKey, bookKey, weeks)
	if err := checkDuration(cmd.Today, weeks); err != nil {
		return Result{}, err
	}

	var res Result
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		led := ledger.NewStore(tx, s.driver)
		f, err := s.gather(ctx, tx, led, cmd)
		if err != nil {
			return err
		}
		d := DecideBorrow(f, cmd)
		if d.Status != StatusBorrowed {
			res = Result{Status: d.Status}
			return nil
		}
		if _, err := led.Insert(ctx, d.Loan); err != nil {
			if errors.Is(err, ledger.ErrOpenLoanExists) {
				// 同時貸出で負けた側
				res = Result{Status: StatusAlreadyBorrowed}
				return nil
			}
			return err
		}
		log.Printf("[INFO] borrowed: loan=%s user=%d book=%d until %s", d.Loan.ULID, userKey, bookKey, clock.FormatDate(d.Date))
		res = Result{Status: StatusBorrowed, ReturnDate: clock.FormatDate(d.Date)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	warnRejected("borrow", res.Status, userKey, bookKey)
	return res, nil
}

// PATCH /return/:user_key/:book_key
func (s *Service) Return(ctx context.Context, userKey, bookKey int64) (Result, error) {
	cmd := s.command(userKey, bookKey, 0)

	var res Result
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		led := ledger.NewStore(tx, s.driver)
		f, err := s.gather(ctx, tx, led, cmd)
		if err != nil {
			return err
		}
		d := DecideReturn(f, cmd)
		if d.Status != StatusReturned {
			res = Result{Status: d.Status}
			return nil
		}
		if err := led.SetReturnDate(ctx, d.Loan.Key, d.Date); err != nil {
			if apierr.CodeOf(err) == apierr.CodeNotFound {
				res = Result{Status: StatusNotBorrowed}
				return nil
			}
			return err
		}
		log.Printf("[INFO] returned: loan=%s user=%d book=%d", d.Loan.ULID, userKey, bookKey)
		res = Result{Status: StatusReturned}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	warnRejected("return", res.Status, userKey, bookKey)
	return res, nil
}

// PATCH /extend/:user_key/:book_key
func (s *Service) Extend(ctx context.Context, userKey, bookKey int64, weeks int) (Result, error) {
	cmd := s.command(userKey, bookKey, weeks)
	if err := checkDuration(cmd.Today, weeks); err != nil {
		return Result{}, err
	}

	var res Result
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		led := ledger.NewStore(tx, s.driver)
		f, err := s.gather(ctx, tx, led, cmd)
		if err != nil {
			return err
		}
		d := DecideExtend(f, cmd)
		if d.Status != StatusExtended {
			res = Result{Status: d.Status}
			return nil
		}
		if err := led.SetExpirationDate(ctx, d.Loan.Key, d.Date); err != nil {
			if apierr.CodeOf(err) == apierr.CodeNotFound {
				res = Result{Status: StatusNotBorrowed}
				return nil
			}
			return err
		}
		log.Printf("[INFO] extended: loan=%s user=%d book=%d until %s", d.Loan.ULID, userKey, bookKey, clock.FormatDate(d.Date))
		res = Result{Status: StatusExtended, ReturnDate: clock.FormatDate(d.Date)}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	warnRejected("extend", res.Status, userKey, bookKey)
	return res, nil
}

// ===== helpers =====

// checkDuration keeps today + weeks inside the four-digit years a DATE column holds.
// The week cap comes first so 7*weeks cannot overflow.
func checkDuration(today time.Time, weeks int) error {
	if weeks < 1 {
		return apierr.ErrInvalid("duration must be >= 1")
	}
	if weeks > MaxDurationWeeks || clock.AddWeeks(today, weeks).Year() > maxDateYear {
		return apierr.ErrInvalid("duration out of range")
	}
	return nil
}

func (s *Service) command(userKey, bookKey int64, weeks int) Command {
	return Command{BorrowerKey: userKey, BookKey: bookKey, Today: clock.Today(s.clock), Weeks: weeks}
}

// gather reads every fact inside tx. The open loan is only looked up for known books.
func (s *Service) gather(ctx context.Context, tx db.DBTX, led *ledger.Store, cmd Command) (Facts, error) {
	var f Facts
	var err error
	if f.BorrowerKnown, err = s.catalog.BorrowerExists(ctx, tx, cmd.BorrowerKey); err != nil {
		return f, err
	}
	if f.BookKnown, err = s.catalog.BookExists(ctx, tx, cmd.BookKey); err != nil {
		return f, err
	}
	if f.BorrowerKnown && f.BookKnown {
		if f.OpenLoan, err = led.FindOpenLoanForBook(ctx, cmd.BookKey); err != nil {
			return f, err
		}
	}
	return f, nil
}

func warnRejected(op string, st Status, userKey, bookKey int64) {
	if !st.Succeeded() {
		log.Printf("[WARN] %s rejected: user=%d book=%d: %s", op, userKey, bookKey, st)
	}
}
