// Package memory provides in-memory ledger stores.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/warp/leave-ledger/ledger"
)

// =============================================================================
// REGISTRY
// =============================================================================

type Registry struct {
	mu        sync.RWMutex
	employees []ledger.Employee
	index     map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

func (r *Registry) Register(_ context.Context, name string, balance int) (ledger.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.employees))
	for i, e := range r.employees {
		ids[i] = e.ID
	}
	emp := ledger.Employee{ID: ledger.NextEmployeeID(ids), Name: name, Balance: balance}
	r.insertLocked(emp)
	return emp, nil
}

func (r *Registry) Insert(_ context.Context, emp ledger.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[emp.ID]; exists {
		return fmt.Errorf("employee %s already exists", emp.ID)
	}
	r.insertLocked(emp)
	return nil
}

func (r *Registry) insertLocked(emp ledger.Employee) {
	r.index[emp.ID] = len(r.employees)
	r.employees = append(r.employees, emp)
}

func (r *Registry) Find(_ context.Context, id string) (ledger.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return ledger.Employee{}, fmt.Errorf("%w: %q", ledger.ErrEmployeeNotFound, id)
	}
	return r.employees[i], nil
}

func (r *Registry) SetBalance(_ context.Context, id string, balance int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ledger.ErrEmployeeNotFound, id)
	}
	r.employees[i].Balance = balance
	return nil
}

func (r *Registry) List(_ context.Context) ([]ledger.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.employees), nil
}

// =============================================================================
// HISTORY LOG
// =============================================================================

type History struct {
	mu      sync.RWMutex
	records []ledger.LeaveRecord
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Append(_ context.Context, rec ledger.LeaveRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

func (h *History) FindByEmployee(_ context.Context, employeeID string) ([]ledger.LeaveRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var result []ledger.LeaveRecord
	for _, rec := range h.records {
		if rec.EmployeeID == employeeID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (h *History) RemoveMatching(_ context.Context, employeeID string, dates []string) ([]ledger.LeaveRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var removed []ledger.LeaveRecord
	kept := h.records[:0:0]
	for _, rec := range h.records {
		if rec.EmployeeID == employeeID && slices.Contains(dates, rec.Date) {
			removed = append(removed, rec)
			continue
		}
		kept = append(kept, rec)
	}
	if len(removed) > 0 {
		h.records = kept
	}
	return removed, nil
}

// Len returns the number of records held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// =============================================================================
// STORE - Registry + History with snapshot rollback
// =============================================================================

// Store combines a Registry and a History.
type Store struct {
	*Registry
	*History

	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{Registry: NewRegistry(), History: NewHistory()}
}

// WithTx runs fn against the store itself and restores a snapshot if fn
// fails. Transactions are serialised with each other but not with direct
// calls; the ledger service holds its own lock around both.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	employees []ledger.Employee
	index     map[string]int
	records   []ledger.LeaveRecord
}

func (s *Store) snapshot() snapshot {
	s.Registry.mu.RLock()
	employees := slices.Clone(s.Registry.employees)
	index := make(map[string]int, len(s.Registry.index))
	for k, v := range s.Registry.index {
		index[k] = v
	}
	s.Registry.mu.RUnlock()

	s.History.mu.RLock()
	records := slices.Clone(s.History.records)
	s.History.mu.RUnlock()

	return snapshot{employees: employees, index: index, records: records}
}

func (s *Store) restore(snap snapshot) {
	s.Registry.mu.Lock()
	s.Registry.employees = snap.employees
	s.Registry.index = snap.index
	s.Registry.mu.Unlock()

	s.History.mu.Lock()
	s.History.records = snap.records
	s.History.mu.Unlock()
}

var (
	_ ledger.Registry   = (*Registry)(nil)
	_ ledger.HistoryLog = (*History)(nil)
	_ ledger.Store      = (*Store)(nil)
)
