package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"bibler-backend/internal/platform/clock"
)

// Date is a calendar date column. It is bound as "YYYY-MM-DD" so that
// sqlite TEXT comparisons and MySQL DATE comparisons agree.
type Date struct{ time.Time }

func NewDate(t time.Time) Date { return Date{clock.Date(t)} }

func (d *Date) Scan(src any) error {
	t, err := scanDate(src)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("date: unexpected NULL")
	}
	d.Time = *t
	return nil
}

func (d Date) Value() (driver.Value, error) { return clock.FormatDate(d.Time), nil }

func (d Date) String() string { return clock.FormatDate(d.Time) }

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(clock.FormatDate(d.Time)) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := clock.ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type NullDate struct {
	Date
	Valid bool
}

func (n *NullDate) Scan(src any) error {
	t, err := scanDate(src)
	if err != nil {
		return err
	}
	if t == nil {
		n.Date, n.Valid = Date{}, false
		return nil
	}
	n.Date, n.Valid = Date{*t}, true
	return nil
}

func (n NullDate) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Date.Value()
}

func (n NullDate) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Date.MarshalJSON()
}

func (n *NullDate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		n.Date, n.Valid = Date{}, false
		return nil
	}
	if err := n.Date.UnmarshalJSON(b); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Ptr returns nil for NULL.
func (n NullDate) Ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func scanDate(src any) (*time.Time, error) {
	var s string
	switch v := src.(type) {
	case nil:
		return nil, nil
	case time.Time:
		t := clock.Date(v)
		return &t, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return nil, fmt.Errorf("date: cannot scan %T", src)
	}
	if len(s) < len(clock.DateLayout) {
		return nil, fmt.Errorf("date: cannot parse %q", s)
	}
	t, err := clock.ParseDate(s[:len(clock.DateLayout)])
	if err != nil {
		return nil, err
	}
	return &t, nil
}
