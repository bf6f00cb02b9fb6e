package memory

import (
	"context"
	"sync"

	"github.com/warp/leave-ledger/ledger"
)

// AuditLog is an append-only in-memory audit trail.
type AuditLog struct {
	mu      sync.RWMutex
	entries []ledger.AuditEntry
}

func NewAuditLog() *AuditLog {
	return &AuditLog{}
}

func (a *AuditLog) Append(_ context.Context, entry ledger.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *AuditLog) Query(_ context.Context, employeeID string) ([]ledger.AuditEntry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var result []ledger.AuditEntry
	for _, e := range a.entries {
		if employeeID == "" || e.EmployeeID == employeeID {
			result = append(result, e)
		}
	}
	return result, nil
}

var _ ledger.AuditLog = (*AuditLog)(nil)
