/*
Package sqlite provides a SQLite-backed ledger.Store.

PURPOSE:
  Holds the employee registry and the leave history log in SQLite instead of
  process memory. The ledger is process-lifetime state, so the schema is
  dropped and recreated every time a Store is opened; a file DSN is scratch
  space, not a durable record.

KEY TABLES:
  employees:      registry, one row per employee, seq keeps registration order
  leave_records:  history log, seq keeps insertion order

INDEXES:
  - idx_leave_records_employee_date: FindByEmployee and RemoveMatching

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, so ":memory:"
  databases are shared by every call.

TRANSACTIONS:
  WithTx runs fn against a view bound to one *sql.Tx. Returning an error
  rolls everything back.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := ledger.NewService(store, ledger.Options{})

SEE ALSO:
  - ledger/store.go: Interface definitions
  - store/memory: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/warp/leave-ledger/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens a SQLite store with the given DSN and recreates the schema.
// Use ":memory:" for an in-memory database.
func New(dsn string) (*Store, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate drops and recreates the schema.
func (s *Store) migrate() error {
	schema := `
	DROP TABLE IF EXISTS leave_records;
	DROP TABLE IF EXISTS employees;

	-- Registry
	CREATE TABLE employees (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		balance INTEGER NOT NULL CHECK (balance >= 0),
		created_at TEXT NOT NULL
	);

	-- History log
	CREATE TABLE leave_records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		purpose TEXT NOT NULL,
		leave_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX idx_leave_records_employee_date
		ON leave_records(employee_id, leave_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// REGISTRY (ledger.Registry interface)
// =============================================================================

func (s *Store) Register(ctx context.Context, name string, balance int) (ledger.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return register(ctx, s.db, name, balance)
}

func (s *Store) Insert(ctx context.Context, emp ledger.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertEmployee(ctx, s.db, emp)
}

func (s *Store) Find(ctx context.Context, id string) (ledger.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findEmployee(ctx, s.db, id)
}

func (s *Store) SetBalance(ctx context.Context, id string, balance int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return setBalance(ctx, s.db, id, balance)
}

func (s *Store) List(ctx context.Context) ([]ledger.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEmployees(ctx, s.db)
}

func register(ctx context.Context, q querier, name string, balance int) (ledger.Employee, error) {
	rows, err := q.QueryContext(ctx, "SELECT id FROM employees")
	if err != nil {
		return ledger.Employee{}, fmt.Errorf("failed to read employee ids: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return ledger.Employee{}, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return ledger.Employee{}, err
	}

	emp := ledger.Employee{ID: ledger.NextEmployeeID(ids), Name: name, Balance: balance}
	if err := insertEmployee(ctx, q, emp); err != nil {
		return ledger.Employee{}, err
	}
	return emp, nil
}

func insertEmployee(ctx context.Context, q querier, emp ledger.Employee) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO employees (id, name, balance, created_at) VALUES (?, ?, ?, ?)",
		emp.ID, emp.Name, emp.Balance, time.Now().UTC().Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("employee %s already exists", emp.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert employee: %w", err)
	}
	return nil
}

func findEmployee(ctx context.Context, q querier, id string) (ledger.Employee, error) {
	var emp ledger.Employee
	err := q.QueryRowContext(ctx,
		"SELECT id, name, balance FROM employees WHERE id = ?", id,
	).Scan(&emp.ID, &emp.Name, &emp.Balance)

	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Employee{}, fmt.Errorf("%w: %q", ledger.ErrEmployeeNotFound, id)
	}
	if err != nil {
		return ledger.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func setBalance(ctx context.Context, q querier, id string, balance int) error {
	res, err := q.ExecContext(ctx, "UPDATE employees SET balance = ? WHERE id = ?", balance, id)
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ledger.ErrEmployeeNotFound, id)
	}
	return nil
}

func listEmployees(ctx context.Context, q querier) ([]ledger.Employee, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, balance FROM employees ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []ledger.Employee
	for rows.Next() {
		var emp ledger.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Balance); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// =============================================================================
// HISTORY LOG (ledger.HistoryLog interface)
// =============================================================================

func (s *Store) Append(ctx context.Context, rec ledger.LeaveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendRecord(ctx, s.db, rec)
}

func (s *Store) FindByEmployee(ctx context.Context, employeeID string) ([]ledger.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryRecords(ctx, s.db,
		"SELECT employee_id, purpose, leave_date FROM leave_records WHERE employee_id = ? ORDER BY seq",
		employeeID,
	)
}

// RemoveMatching selects and deletes in one transaction.
func (s *Store) RemoveMatching(ctx context.Context, employeeID string, dates []string) ([]ledger.LeaveRecord, error) {
	var removed []ledger.LeaveRecord
	err := s.WithTx(ctx, func(tx ledger.Store) error {
		var err error
		removed, err = tx.RemoveMatching(ctx, employeeID, dates)
		return err
	})
	return removed, err
}

// Count returns the number of leave records.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leave_records").Scan(&n)
	return n, err
}

func appendRecord(ctx context.Context, q querier, rec ledger.LeaveRecord) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO leave_records (employee_id, purpose, leave_date, created_at) VALUES (?, ?, ?, ?)",
		rec.EmployeeID, string(rec.Purpose), rec.Date, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append leave record: %w", err)
	}
	return nil
}

func removeMatching(ctx context.Context, q querier, employeeID string, dates []string) ([]ledger.LeaveRecord, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(dates)), ", ")
	where := "employee_id = ? AND leave_date IN (" + placeholders + ")"
	args := make([]any, 0, len(dates)+1)
	args = append(args, employeeID)
	for _, d := range dates {
		args = append(args, d)
	}

	removed, err := queryRecords(ctx, q,
		"SELECT employee_id, purpose, leave_date FROM leave_records WHERE "+where+" ORDER BY seq",
		args...,
	)
	if err != nil || len(removed) == 0 {
		return nil, err
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM leave_records WHERE "+where, args...); err != nil {
		return nil, fmt.Errorf("failed to delete leave records: %w", err)
	}
	return removed, nil
}

func queryRecords(ctx context.Context, q querier, query string, args ...any) ([]ledger.LeaveRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave records: %w", err)
	}
	defer rows.Close()

	var records []ledger.LeaveRecord
	for rows.Next() {
		var (
			rec     ledger.LeaveRecord
			purpose string
		)
		if err := rows.Scan(&rec.EmployeeID, &purpose, &rec.Date); err != nil {
			return nil, fmt.Errorf("failed to scan leave record: %w", err)
		}
		rec.Purpose = ledger.Purpose(purpose)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore is a ledger.Store bound to one open transaction.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) Register(ctx context.Context, name string, balance int) (ledger.Employee, error) {
	return register(ctx, ts.tx, name, balance)
}

func (ts *txStore) Insert(ctx context.Context, emp ledger.Employee) error {
	return insertEmployee(ctx, ts.tx, emp)
}

func (ts *txStore) Find(ctx context.Context, id string) (ledger.Employee, error) {
	return findEmployee(ctx, ts.tx, id)
}

func (ts *txStore) SetBalance(ctx context.Context, id string, balance int) error {
	return setBalance(ctx, ts.tx, id, balance)
}

func (ts *txStore) List(ctx context.Context) ([]ledger.Employee, error) {
	return listEmployees(ctx, ts.tx)
}

func (ts *txStore) Append(ctx context.Context, rec ledger.LeaveRecord) error {
	return appendRecord(ctx, ts.tx, rec)
}

func (ts *txStore) FindByEmployee(ctx context.Context, employeeID string) ([]ledger.LeaveRecord, error) {
	return queryRecords(ctx, ts.tx,
		"SELECT employee_id, purpose, leave_date FROM leave_records WHERE employee_id = ? ORDER BY seq",
		employeeID,
	)
}

func (ts *txStore) RemoveMatching(ctx context.Context, employeeID string, dates []string) ([]ledger.LeaveRecord, error) {
	return removeMatching(ctx, ts.tx, employeeID, dates)
}

// WithTx on an open transaction runs fn inside it.
func (ts *txStore) WithTx(_ context.Context, fn func(ledger.Store) error) error {
	return fn(ts)
}

// Helper functions

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

var (
	_ ledger.Store = (*Store)(nil)
	_ ledger.Store = (*txStore)(nil)
)
