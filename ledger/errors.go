/*
errors.go - Error types for the leave ledger

SENTINELS (use with errors.Is):
  ErrEmployeeNotFound     identifier matches no registered employee
  ErrInvalidDate          a date is unparseable or not in the future
  ErrParseFailure         a cancellation date could not be read at all
  ErrInsufficientBalance  requested days exceed the remaining balance
  ErrNoMatchingLeave      cancellation matched no leave records
  ErrNoDates              an application or cancellation carried no dates

STRUCTURED ERRORS:
  InvalidDatesError, UnparseableDatesError and InsufficientBalanceError
  carry the offending input and unwrap to their sentinel.

Every error returned by Service leaves the registry and log untouched.
*/
package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrInvalidDate         = errors.New("invalid leave date")
	ErrParseFailure        = errors.New("unparseable leave date")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrNoMatchingLeave     = errors.New("no leave taken for the given date(s)")
	ErrNoDates             = errors.New("no leave dates given")
)

// InvalidDatesError lists every submitted date that is unparseable or not
// strictly in the future.
type InvalidDatesError struct {
	Dates []string
}

func (e *InvalidDatesError) Error() string {
	return fmt.Sprintf("invalid leave dates: %s", strings.Join(e.Dates, ", "))
}

func (e *InvalidDatesError) Unwrap() error {
	return ErrInvalidDate
}

// UnparseableDatesError lists cancellation dates that could not be read.
type UnparseableDatesError struct {
	Dates []string
	Cause error // first underlying parse error
}

func (e *UnparseableDatesError) Error() string {
	return fmt.Sprintf("unparseable leave dates: %s", strings.Join(e.Dates, ", "))
}

func (e *UnparseableDatesError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrParseFailure}
	}
	return []error{ErrParseFailure, e.Cause}
}

// InsufficientBalanceError reports a request larger than the balance.
type InsufficientBalanceError struct {
	EmployeeID string
	Balance    int
	Requested  int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance for %s: have %d, requested %d",
		e.EmployeeID, e.Balance, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// IsClientError returns true if the error is due to caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrNoDates)
}

// IsNotFound returns true if the error indicates a missing employee or leave.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrNoMatchingLeave)
}
