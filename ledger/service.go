/*
service.go - Ledger service: registration, leave application, cancellation

PURPOSE:
  The only code allowed to mutate the registry and the history log. Every
  operation validates first and writes last, so a rejected request leaves
  both structures exactly as they were.

INVARIANTS:
  - A balance never goes negative.
  - Every stored date is canonical and was strictly in the future when it
    was written.
  - An application is all-or-nothing: N dates either produce N records and
    an N-day deduction, or nothing at all.

APPLY FLOW:
  1. Every date must be in the future. All offenders are reported together.
  2. Purpose is normalised (unknown text becomes "others").
  3. The employee must exist.
  4. len(dates) must not exceed the balance.
  5. One record per date is appended and the balance is reduced by len(dates).

  Re-submitting the same request books the days again, and a date repeated
  inside one request is booked twice.

CANCEL FLOW:
  1. Every date must parse (UnparseableDatesError).
  2. Every date must be in the future (InvalidDatesError).
  3. Matching records are removed; no match is ErrNoMatchingLeave.
  Balance is NOT credited back unless Options.RestoreOnCancel is set.

CONCURRENCY:
  One mutex guards the registry and log together, so the read-then-write
  steps of apply and cancel are atomic with respect to each other. Store
  writes additionally run inside Store.WithTx.

AFTER COMMIT:
  Audit entries and events are written once the mutation is committed.
  Their failures are logged and never fail the operation.
*/
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/leave-ledger/calendar"
	"github.com/warp/leave-ledger/events"
)

// Options configures a Service. The zero value is usable.
type Options struct {
	// Entitlement is the starting balance of new employees. Zero means
	// DefaultEntitlement.
	Entitlement int

	// RestoreOnCancel credits cancelled days back to the balance.
	RestoreOnCancel bool

	Dates     *calendar.Validator
	Audit     AuditLog
	Publisher events.Publisher
	Logger    *zap.Logger
}

// Service owns the ledger state and enforces its rules.
type Service struct {
	mu sync.Mutex

	store     Store
	dates     *calendar.Validator
	audit     AuditLog
	publisher events.Publisher
	logger    *zap.Logger

	entitlement     int
	restoreOnCancel bool
}

// NewService creates a service over store.
func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:           store,
		dates:           opts.Dates,
		audit:           opts.Audit,
		publisher:       opts.Publisher,
		logger:          opts.Logger,
		entitlement:     opts.Entitlement,
		restoreOnCancel: opts.RestoreOnCancel,
	}
	if s.dates == nil {
		s.dates = calendar.NewValidator()
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.L()
	}
	s.logger = s.logger.Named("ledger.service")
	if s.entitlement <= 0 {
		s.entitlement = DefaultEntitlement
	}
	return s
}

// Entitlement returns the starting balance given at registration.
func (s *Service) Entitlement() int {
	return s.entitlement
}

// =============================================================================
// REGISTRATION
// =============================================================================

// RegisterEmployee adds an employee with the full entitlement. Names are
// stored as given; no validation is performed.
func (s *Service) RegisterEmployee(ctx context.Context, name string) (Employee, error) {
	s.mu.Lock()
	emp, err := s.store.Register(ctx, name, s.entitlement)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("register employee failed", zap.Error(err))
		return Employee{}, fmt.Errorf("register employee: %w", err)
	}

	s.logger.Info("employee registered",
		zap.String("employee_id", emp.ID),
		zap.Int("balance", emp.Balance),
	)
	s.recordAudit(ctx, AuditEmployeeRegistered, emp.ID, map[string]any{
		"name":    emp.Name,
		"balance": emp.Balance,
	})
	s.publish(ctx, events.NewEmployeeRegistered(emp.ID, emp.Name, emp.Balance))
	return emp, nil
}

// =============================================================================
// APPLY FOR LEAVE
// =============================================================================

// ApplyForLeave books one day of leave per date and deducts the balance.
func (s *Service) ApplyForLeave(ctx context.Context, employeeID string, leaveDates []string, purpose string) (Application, error) {
	log := s.logger.With(zap.String("employee_id", employeeID))

	if len(leaveDates) == 0 {
		return Application{}, ErrNoDates
	}

	var invalid []string
	for _, d := range leaveDates {
		if !s.dates.IsFuture(d) {
			invalid = append(invalid, d)
		}
	}
	if len(invalid) > 0 {
		log.Warn("leave application rejected", zap.Strings("invalid_dates", invalid))
		return Application{}, &InvalidDatesError{Dates: invalid}
	}

	canonical, err := s.canonicalize(leaveDates)
	if err != nil {
		return Application{}, err
	}

	p := NormalizePurpose(purpose)

	s.mu.Lock()
	app, err := s.applyLocked(ctx, employeeID, p, leaveDates, canonical)
	s.mu.Unlock()
	if err != nil {
		if IsClientError(err) || IsNotFound(err) {
			log.Warn("leave application rejected", zap.Error(err))
		} else {
			log.Error("leave application failed", zap.Error(err))
		}
		return Application{}, err
	}

	log.Info("leave applied",
		zap.String("purpose", string(p)),
		zap.Strings("dates", canonical),
		zap.Int("balance", app.Balance),
	)
	s.recordAudit(ctx, AuditLeaveApplied, employeeID, map[string]any{
		"purpose": string(p),
		"dates":   canonical,
		"balance": app.Balance,
	})
	s.publish(ctx, events.NewLeaveApplied(employeeID, string(p), canonical, app.Balance))
	return app, nil
}

func (s *Service) applyLocked(ctx context.Context, employeeID string, p Purpose, requested, canonical []string) (Application, error) {
	var app Application
	err := s.store.WithTx(ctx, func(tx Store) error {
		emp, err := tx.Find(ctx, employeeID)
		if err != nil {
			return err
		}
		if len(canonical) > emp.Balance {
			return &InsufficientBalanceError{
				EmployeeID: emp.ID,
				Balance:    emp.Balance,
				Requested:  len(canonical),
			}
		}

		records := make([]LeaveRecord, 0, len(canonical))
		for _, d := range canonical {
			rec := LeaveRecord{EmployeeID: emp.ID, Purpose: p, Date: d}
			if err := tx.Append(ctx, rec); err != nil {
				return fmt.Errorf("append leave record: %w", err)
			}
			records = append(records, rec)
		}

		balance := emp.Balance - len(records)
		if err := tx.SetBalance(ctx, emp.ID, balance); err != nil {
			return fmt.Errorf("deduct balance: %w", err)
		}

		app = Application{
			EmployeeID: emp.ID,
			Purpose:    p,
			Requested:  requested,
			Records:    records,
			Balance:    balance,
		}
		return nil
	})
	return app, err
}

// =============================================================================
// CANCEL LEAVES
// =============================================================================

// CancelLeaves removes the employee's leave on the given dates.
func (s *Service) CancelLeaves(ctx context.Context, employeeID string, leaveDates []string) (Cancellation, error) {
	log := s.logger.With(zap.String("employee_id", employeeID))

	if len(leaveDates) == 0 {
		return Cancellation{}, ErrNoDates
	}

	canonical, err := s.canonicalize(leaveDates)
	if err != nil {
		log.Warn("leave cancellation rejected", zap.Error(err))
		return Cancellation{}, err
	}

	var invalid []string
	for i, d := range canonical {
		if !s.dates.IsFuture(d) {
			invalid = append(invalid, leaveDates[i])
		}
	}
	if len(invalid) > 0 {
		log.Warn("leave cancellation rejected", zap.Strings("invalid_dates", invalid))
		return Cancellation{}, &InvalidDatesError{Dates: invalid}
	}

	s.mu.Lock()
	c, err := s.cancelLocked(ctx, employeeID, leaveDates, canonical)
	s.mu.Unlock()
	if err != nil {
		if IsNotFound(err) {
			log.Warn("leave cancellation rejected", zap.Error(err))
		} else {
			log.Error("leave cancellation failed", zap.Error(err))
		}
		return Cancellation{}, err
	}

	removed := make([]string, len(c.Removed))
	for i, rec := range c.Removed {
		removed[i] = rec.Date
	}
	log.Info("leave cancelled",
		zap.Strings("dates", removed),
		zap.Int("restored", c.Restored),
	)
	s.recordAudit(ctx, AuditLeaveCancelled, employeeID, map[string]any{
		"dates":    removed,
		"restored": c.Restored,
	})
	s.publish(ctx, events.NewLeaveCancelled(employeeID, removed, c.Restored))
	return c, nil
}

func (s *Service) cancelLocked(ctx context.Context, employeeID string, requested, canonical []string) (Cancellation, error) {
	var c Cancellation
	err := s.store.WithTx(ctx, func(tx Store) error {
		removed, err := tx.RemoveMatching(ctx, employeeID, canonical)
		if err != nil {
			return fmt.Errorf("remove leave records: %w", err)
		}
		if len(removed) == 0 {
			return ErrNoMatchingLeave
		}

		c = Cancellation{
			EmployeeID: employeeID,
			Requested:  requested,
			Removed:    removed,
			Balance:    -1,
		}
		if s.restoreOnCancel {
			restored, balance, err := s.creditBack(ctx, tx, employeeID, len(removed))
			if err != nil {
				return err
			}
			c.Restored, c.Balance = restored, balance
		}
		return nil
	})
	return c, err
}

// creditBack returns cancelled days to the balance, never past the
// entitlement.
func (s *Service) creditBack(ctx context.Context, tx Store, employeeID string, days int) (int, int, error) {
	emp, err := tx.Find(ctx, employeeID)
	if errors.Is(err, ErrEmployeeNotFound) {
		return 0, -1, nil
	}
	if err != nil {
		return 0, -1, err
	}

	balance := min(emp.Balance+days, s.entitlement)
	if err := tx.SetBalance(ctx, emp.ID, balance); err != nil {
		return 0, -1, fmt.Errorf("restore balance: %w", err)
	}
	return balance - emp.Balance, balance, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// LeaveHistory returns the employee's profile and leave in insertion order.
func (s *Service) LeaveHistory(ctx context.Context, employeeID string) (History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.store.Find(ctx, employeeID)
	if err != nil {
		return History{}, err
	}
	records, err := s.store.FindByEmployee(ctx, employeeID)
	if err != nil {
		return History{}, fmt.Errorf("load leave history: %w", err)
	}
	return History{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Balance:      emp.Balance,
		Records:      records,
	}, nil
}

// Employees returns every registered employee.
func (s *Service) Employees(ctx context.Context) ([]Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List(ctx)
}

// AuditTrail returns the audit entries for an employee. Without an audit log
// it returns nothing.
func (s *Service) AuditTrail(ctx context.Context, employeeID string) ([]AuditEntry, error) {
	if s.audit == nil {
		return nil, nil
	}
	return s.audit.Query(ctx, employeeID)
}

// =============================================================================
// HELPERS
// =============================================================================

// canonicalize parses every date, reporting all unreadable ones together.
func (s *Service) canonicalize(dates []string) ([]string, error) {
	out := make([]string, len(dates))
	var bad []string
	var cause error
	for i, d := range dates {
		c, err := s.dates.Canonical(d)
		if err != nil {
			bad = append(bad, d)
			if cause == nil {
				cause = err
			}
			continue
		}
		out[i] = c
	}
	if len(bad) > 0 {
		return nil, &UnparseableDatesError{Dates: bad, Cause: cause}
	}
	return out, nil
}

func (s *Service) recordAudit(ctx context.Context, action AuditAction, employeeID string, payload map[string]any) {
	if s.audit == nil {
		return
	}
	entry := AuditEntry{
		ID:         uuid.NewString(),
		At:         time.Now().UTC(),
		Action:     action,
		EmployeeID: employeeID,
		Payload:    payload,
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("audit append failed", zap.String("action", string(action)), zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("event publish failed",
			zap.String("type", string(event.Type)),
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
	}
}
