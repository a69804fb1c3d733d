package workflow

import (
	"time"

	"bibler-backend/internal/circulation/ledger"
	"bibler-backend/internal/platform/clock"
)

const (
	DefaultBorrowWeeks = 3
	DefaultExtendWeeks = 1
	// MaxLoanWeeks caps start→expiration after extensions.
	MaxLoanWeeks = 5
	// MaxDurationWeeks bounds the duration query parameter (about 10000 years).
	MaxDurationWeeks = 521_800

	maxDateYear = 9999
)

// Facts is what the service reads before deciding.
type Facts struct {
	BorrowerKnown bool
	BookKnown     bool
	OpenLoan      *ledger.Loan // open loan on the book, nil when available
}

type Command struct {
	BorrowerKey int64
	BookKey     int64
	Today       time.Time
	Weeks       int
}

// Decision tells the service what to write.
// Loan is the loan to insert (borrow) or to mutate (return, extend).
// Date is the new expiration (borrow, extend) or the return date.
type Decision struct {
	Status Status
	Loan   *ledger.Loan
	Date   time.Time
}

func rejected(s Status) Decision { return Decision{Status: s} }

// DecideBorrow checks borrower, book and availability in that order.
func DecideBorrow(f Facts, cmd Command) Decision {
	switch {
	case !f.BorrowerKnown:
		return rejected(StatusUserUnknown)
	case !f.BookKnown:
		return rejected(StatusBookUnknown)
	case f.OpenLoan != nil:
		return rejected(StatusAlreadyBorrowed)
	}
	expires := clock.AddWeeks(cmd.Today, cmd.Weeks)
	return Decision{
		Status: StatusBorrowed,
		Loan: &ledger.Loan{
			Key:         ledger.NewKey,
			BookKey:     cmd.BookKey,
			BorrowerKey: cmd.BorrowerKey,
			Start:       cmd.Today,
			Expiration:  expires,
		},
		Date: expires,
	}
}

// DecideReturn only closes a loan held by the requesting borrower.
func DecideReturn(f Facts, cmd Command) Decision {
	if d, ok := checkHolder(f, cmd); !ok {
		return d
	}
	return Decision{Status: StatusReturned, Loan: f.OpenLoan, Date: cmd.Today}
}

// DecideExtend moves the expiration by cmd.Weeks unless that passes start + MaxLoanWeeks.
func DecideExtend(f Facts, cmd Command) Decision {
	if d, ok := checkHolder(f, cmd); !ok {
		return d
	}
	candidate := clock.AddWeeks(f.OpenLoan.Expiration, cmd.Weeks)
	if clock.AddWeeks(f.OpenLoan.Start, MaxLoanWeeks).Before(candidate) {
		return rejected(StatusLimitReached)
	}
	return Decision{Status: StatusExtended, Loan: f.OpenLoan, Date: candidate}
}

func checkHolder(f Facts, cmd Command) (Decision, bool) {
	switch {
	case !f.BorrowerKnown:
		return rejected(StatusUserUnknown), false
	case !f.BookKnown:
		return rejected(StatusBookUnknown), false
	case f.OpenLoan == nil:
		return rejected(StatusNotBorrowed), false
	case f.OpenLoan.BorrowerKey != cmd.BorrowerKey:
		return rejected(StatusNotBorrowed), false
	}
	return Decision{}, true
}
