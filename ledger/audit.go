package ledger

import (
	"context"
	"time"
)

// =============================================================================
// AUDIT LOG - Separate from the ledger, tracks what changed and when
// =============================================================================

// AuditEntry records one successful mutation.
type AuditEntry struct {
	ID         string
	At         time.Time
	Action     AuditAction
	EmployeeID string
	Payload    map[string]any // action-specific data
}

type AuditAction string

const (
	AuditEmployeeRegistered AuditAction = "employee_registered"
	AuditLeaveApplied       AuditAction = "leave_applied"
	AuditLeaveCancelled     AuditAction = "leave_cancelled"
)

// AuditLog stores audit entries. Append-only.
type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error

	// Query returns entries for an employee in the order they were written.
	// An empty employeeID returns everything.
	Query(ctx context.Context, employeeID string) ([]AuditEntry, error)
}
