package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the wire and storage format of reservation dates.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ErrInvalidDate is returned by ParseDate for anything that is not a real
// calendar date in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// Date is a calendar day in YYYY-MM-DD form.  Because the layout sorts
// lexically, two Dates can be compared with the ordinary string operators.
type Date string

// ParseDate validates s and returns it as a Date.
func ParseDate(s string) (Date, error) {
	if !datePattern.MatchString(s) {
		return "", ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return Date(s), nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date { return Date(t.Format(DateLayout)) }

// String implements fmt.Stringer.
func (d Date) String() string { return string(d) }

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d < other }

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) { return string(d), nil }

// Scan implements sql.Scanner.  MySQL with parseTime=true yields time.Time
// for DATE columns while other drivers hand back text.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = Date(v.Format(DateLayout))
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		*d = ""
	default:
		return fmt.Errorf("model.Date: unsupported scan type %T", src)
	}
	return nil
}

func (d *Date) scanText(s string) error {
	if len(s) < len(DateLayout) {
		return fmt.Errorf("model.Date: cannot scan %q", s)
	}
	*d = Date(s[:len(DateLayout)])
	return nil
}
