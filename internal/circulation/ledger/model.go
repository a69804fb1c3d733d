package ledger

import (
	"time"

	"bibler-backend/internal/platform/db"
)

// NewKey marks a loan whose key is assigned on insert.
const NewKey int64 = -1

type Loan struct {
	Key         int64
	ULID        string
	BookKey     int64
	BorrowerKey int64
	Start       time.Time // calendar date, UTC midnight
	Expiration  time.Time
	Return      *time.Time // nil = open
}

func (l Loan) IsOpen() bool { return l.Return == nil }

// Overdue reports an open loan whose expiration lies before today.
func (l Loan) Overdue(today time.Time) bool { return l.IsOpen() && l.Expiration.Before(today) }

// OpenLoanView is one row of the joined open-loan projection.
type OpenLoanView struct {
	Key            int64       `db:"loan_id" json:"key"`
	ULID           string      `db:"loan_ulid" json:"loan_ulid"`
	BookKey        int64       `db:"book_id" json:"book_key"`
	UserKey        int64       `db:"borrower_id" json:"user_key"`
	ReturnDate     db.NullDate `db:"return_date" json:"return_date"`
	ExpirationDate db.Date     `db:"expiration_date" json:"expiration_date"`
	StartDate      db.Date     `db:"start_date" json:"start_date"`
	Title          string      `db:"title" json:"title"`
	Author         string      `db:"author" json:"author"`
	Category       string      `db:"category" json:"category"`
	ISBN           *string     `db:"isbn" json:"isbn"`
	Number         int64       `db:"number" json:"number"`
	Shorthand      string      `db:"shorthand" json:"shorthand"`
	Firstname      string      `db:"firstname" json:"firstname"`
	Lastname       string      `db:"lastname" json:"lastname"`
	Classname      *string     `db:"classname" json:"classname"`
}

// LoanFilter narrows the loan history. Nil fields are not applied.
type LoanFilter struct {
	BookKey     *int64
	BorrowerKey *int64
	Open        *bool      // true: return_date IS NULL, false: closed only
	OverdueAsOf *time.Time // open and expiration < date
}

type Page struct {
	Limit  int
	Offset int
	Order  string // asc|desc by start date
}
