/*
calendar.go - Leave date parsing and "is it in the future" checks

PURPOSE:
  Leave dates arrive as free-form text ("2026-03-10", "March 10 2026",
  "10/03/2026 09:00"). This package turns them into the canonical
  YYYY-MM-DD form stored by the ledger and decides whether a date is far
  enough ahead to be booked.

FUTURE RULE:
  A date is in the future only when the whole-day difference between the
  parsed instant and "now" is greater than zero. The difference is floored,
  so anything less than 24 hours ahead is NOT in the future:

    now = 2026-03-10 09:00
    "2026-03-11"   -> 15h ahead  -> 0 days -> false
    "2026-03-12"   -> 39h ahead  -> 1 day  -> true

PARSING:
  Parsing uses github.com/araddon/dateparse, which accepts most date and
  date-time layouts without a format string. Any trailing time of day is
  dropped from the canonical form. A date without a year ("December 5")
  takes the current year.

  Known gaps against looser parsers:
    "2027-03-05 10am"  rejected (12-hour time glued to an ISO date)
    "1234567890"       read as a unix timestamp -> 2009-02-13, so not future

CLOCK:
  The validator reads "now" from an injectable clock so tests can pin it.

SEE ALSO:
  - ledger/service.go: Uses Validator for apply/cancel validation
*/
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical leave date layout.
const Layout = "2006-01-02"

const day = 24 * time.Hour

// ErrUnparseable is returned (wrapped in ParseError) when text is not a date.
var ErrUnparseable = errors.New("unparseable date")

// ParseError reports text that could not be interpreted as a date.
type ParseError struct {
	Input string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("cannot parse %q as a date", e.Input)
	}
	return fmt.Sprintf("cannot parse %q as a date: %v", e.Input, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseable
}

// Clock returns the current time.
type Clock func() time.Time

// Validator parses leave dates and judges whether they lie in the future.
type Validator struct {
	now Clock
	loc *time.Location
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(v *Validator) { v.now = c }
}

// WithLocation sets the zone used for dates without an explicit offset.
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) { v.loc = loc }
}

// NewValidator creates a validator on the local clock and zone.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Parse interprets text as a date or date-time.
func (v *Validator) Parse(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, &ParseError{Input: text}
	}
	t, err := dateparse.ParseIn(trimmed, v.loc)
	if err != nil {
		return time.Time{}, &ParseError{Input: text, Cause: err}
	}
	if t.Year() == 0 {
		t = time.Date(v.now().In(v.loc).Year(), t.Month(), t.Day(),
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	return t, nil
}

// Canonical parses text and returns it in YYYY-MM-DD form.
func (v *Validator) Canonical(text string) (string, error) {
	t, err := v.Parse(text)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}

// IsFuture reports whether text is a date at least one whole day ahead.
// Unparseable text is simply not in the future.
func (v *Validator) IsFuture(text string) bool {
	t, err := v.Parse(text)
	if err != nil {
		return false
	}
	return WholeDays(v.now(), t) > 0
}

// WholeDays returns the number of whole days from -> to, floored.
// 36h is 1, -12h is -1.
func WholeDays(from, to time.Time) int {
	d := to.Sub(from)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}
