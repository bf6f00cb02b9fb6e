/*
store.go - Persistence interfaces for the registry, history log and audit log

KEY INTERFACES:
  Registry:   employees and their balances
  HistoryLog: leave records, append-only except for RemoveMatching
  Store:      Registry + HistoryLog behind one transactional boundary
  AuditLog:   append-only trail of successful mutations

VALIDATION:
  Stores do no validation. The Service checks dates, balances and
  employee existence before writing.

IMPLEMENTATIONS:
  - store/memory: process memory (default)
  - store/sqlite: SQLite, schema recreated on open
*/
package ledger

import "context"

// Registry holds employees keyed by identifier.
type Registry interface {
	// Register allocates the next identifier (highest + 1) and stores a new
	// employee with the given balance.
	Register(ctx context.Context, name string, balance int) (Employee, error)

	// Insert stores an employee with a caller-chosen identifier. Used for seeding.
	Insert(ctx context.Context, emp Employee) error

	// Find returns the employee with exactly this identifier, or
	// ErrEmployeeNotFound.
	Find(ctx context.Context, id string) (Employee, error)

	// SetBalance overwrites an employee's balance.
	SetBalance(ctx context.Context, id string, balance int) error

	// List returns all employees in registration order.
	List(ctx context.Context) ([]Employee, error)
}

// HistoryLog holds leave records in insertion order.
type HistoryLog interface {
	Append(ctx context.Context, rec LeaveRecord) error

	// FindByEmployee returns every record for an employee in insertion order.
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRecord, error)

	// RemoveMatching deletes and returns every record for employeeID whose
	// date is in dates. Nothing changes when nothing matches.
	RemoveMatching(ctx context.Context, employeeID string, dates []string) ([]LeaveRecord, error)
}

// Store bundles the registry and the history log.
type Store interface {
	Registry
	HistoryLog

	// WithTx executes fn against a transactional view of the store.
	// If fn returns error, every write made through the view is undone.
	WithTx(ctx context.Context, fn func(Store) error) error
}
