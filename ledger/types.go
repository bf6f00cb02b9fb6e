// Package ledger implements the leave ledger: an employee registry and a leave
// history log, kept consistent by a single Service.
package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultEntitlement is the balance every employee starts with.
const DefaultEntitlement = 20

// IDWidth is the minimum number of digits in an employee identifier.
const IDWidth = 4

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is a registered employee and their remaining leave days.
type Employee struct {
	ID      string
	Name    string
	Balance int
}

// FormatEmployeeID renders n zero-padded to IDWidth digits.
// Values past 9999 widen instead of wrapping: 10000 -> "10000".
func FormatEmployeeID(n int) string {
	return fmt.Sprintf("%0*d", IDWidth, n)
}

// ParseEmployeeID returns the numeric value of a registry identifier.
func ParseEmployeeID(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// NextEmployeeID returns the identifier following the highest of ids.
// Non-numeric identifiers are ignored.
func NextEmployeeID(ids []string) string {
	highest := 0
	for _, id := range ids {
		if n, ok := ParseEmployeeID(id); ok && n > highest {
			highest = n
		}
	}
	return FormatEmployeeID(highest + 1)
}

// =============================================================================
// LEAVE RECORD
// =============================================================================

// Purpose is the closed set of leave categories.
type Purpose string

const (
	PurposeSick      Purpose = "sick"
	PurposeVacation  Purpose = "vacation"
	PurposeMaternity Purpose = "maternity"
	PurposePaternity Purpose = "paternity"
	PurposeOthers    Purpose = "others"
)

// NormalizePurpose maps free text onto a Purpose. Matching is
// case-insensitive; anything unrecognised becomes PurposeOthers.
func NormalizePurpose(raw string) Purpose {
	switch p := Purpose(strings.ToLower(strings.TrimSpace(raw))); p {
	case PurposeSick, PurposeVacation, PurposeMaternity, PurposePaternity:
		return p
	default:
		return PurposeOthers
	}
}

// LeaveRecord is one day of leave taken by an employee.
// Date is always canonical YYYY-MM-DD.
type LeaveRecord struct {
	EmployeeID string
	Purpose    Purpose
	Date       string
}

// =============================================================================
// RESULTS
// =============================================================================

// Application is the outcome of a successful leave application.
type Application struct {
	EmployeeID string
	Purpose    Purpose
	Requested  []string // dates as submitted
	Records    []LeaveRecord
	Balance    int // balance after deduction
}

// Cancellation is the outcome of a successful cancellation.
type Cancellation struct {
	EmployeeID string
	Requested  []string
	Removed    []LeaveRecord
	Restored   int // days credited back; zero unless restoring is enabled
	Balance    int // balance after cancellation, -1 when not looked up
}

// History is an employee's profile together with all their leave.
type History struct {
	EmployeeID   string
	EmployeeName string
	Balance      int
	Records      []LeaveRecord
}
