// Package clock provides the time and id sources injected into services.
package clock

import (
	"crypto/rand"
	"time"

	ulid "github.com/oklog/ulid/v2"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type Clock interface{ Now() time.Time }

type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Tests only.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Today is the current calendar date as UTC midnight.
func Today(c Clock) time.Time { return Date(c.Now()) }

// Date drops the time of day and normalizes to UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddWeeks(d time.Time, weeks int) time.Time { return d.AddDate(0, 0, 7*weeks) }

func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// ParseDate accepts YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// -------------- ID --------------

type IDGen interface{ NewULID(t time.Time) string }

type ULIDGen struct{}

func (ULIDGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
