package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Desk answers ledger operations with human-readable messages. Every call
// returns a non-empty message; the error is returned alongside it so a
// transport can pick a status code.
type Desk struct {
	service *Service
}

func NewDesk(service *Service) *Desk {
	return &Desk{service: service}
}

// Service returns the underlying ledger service.
func (d *Desk) Service() *Service {
	return d.service
}

func (d *Desk) RegisterEmployee(ctx context.Context, name string) (string, error) {
	emp, err := d.service.RegisterEmployee(ctx, name)
	if err != nil {
		return fmt.Sprintf("Error: Registration failed. %v", err), err
	}
	return fmt.Sprintf(
		"Registration successful. Your employee ID is %s and you are entitled to a maximum of %d days leave.",
		emp.ID, emp.Balance,
	), nil
}

func (d *Desk) ApplyForLeave(ctx context.Context, employeeID string, leaveDates []string, purpose string) (string, error) {
	app, err := d.service.ApplyForLeave(ctx, employeeID, leaveDates, purpose)
	if err != nil {
		return failureMessage(employeeID, err), err
	}
	return fmt.Sprintf("Your leave application for %s is successful. You now have %d leave days left.",
		quoteList(app.Requested), app.Balance), nil
}

func (d *Desk) CancelLeaves(ctx context.Context, employeeID string, leaveDates []string) (string, error) {
	c, err := d.service.CancelLeaves(ctx, employeeID, leaveDates)
	if err != nil {
		var invalid *InvalidDatesError
		if errors.As(err, &invalid) {
			return fmt.Sprintf("An invalid date is found %s. Dates can only be a valid date and must be a future date.",
				quoteList(invalid.Dates)), err
		}
		return failureMessage(employeeID, err), err
	}

	dates := make([]string, len(c.Removed))
	for i, rec := range c.Removed {
		dates[i] = rec.Date
	}
	msg := fmt.Sprintf("Leave cancelled for %s. %d leave day(s) removed.", quoteList(dates), len(c.Removed))
	if c.Restored > 0 {
		msg += fmt.Sprintf(" You now have %d leave days left.", c.Balance)
	}
	return msg, nil
}

func failureMessage(employeeID string, err error) string {
	var (
		invalid      *InvalidDatesError
		unparseable  *UnparseableDatesError
		insufficient *InsufficientBalanceError
	)
	switch {
	case errors.As(err, &invalid):
		return fmt.Sprintf("Error: Invalid leave dates %s. Leave date should be a valid date and should not be a past date.",
			quoteList(invalid.Dates))
	case errors.As(err, &unparseable):
		return fmt.Sprintf("Error: Could not read leave dates %s. Dates must be valid calendar dates.",
			quoteList(unparseable.Dates))
	case errors.As(err, &insufficient):
		return fmt.Sprintf("Sorry, Insufficient leave balance. You have only %d leave days left.", insufficient.Balance)
	case errors.Is(err, ErrEmployeeNotFound):
		return fmt.Sprintf("Not Found: Employee with ID '%s' not found.", employeeID)
	case errors.Is(err, ErrNoMatchingLeave):
		return "No leave taken by the employee for the date(s) given."
	case errors.Is(err, ErrNoDates):
		return "Error: No leave dates given. Provide at least one leave date."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// quoteList renders ["a", "b"] as ['a', 'b'].
func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
