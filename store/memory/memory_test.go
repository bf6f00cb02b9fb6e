package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/ledger"
	"github.com/warp/leave-ledger/store/memory"
)

// =============================================================================
// REGISTRY
// =============================================================================

func TestRegistry_RegisterIncrementsHighestID(t *testing.T) {
	ctx := context.Background()
	r := memory.NewRegistry()
	require.NoError(t, r.Insert(ctx, ledger.Employee{ID: "0004", Name: "Adeola", Balance: 20}))
	require.NoError(t, r.Insert(ctx, ledger.Employee{ID: "0002", Name: "Seun", Balance: 20}))

	emp, err := r.Register(ctx, "Bolatito", 20)
	require.NoError(t, err)

	assert.Equal(t, "0005", emp.ID, "next id follows the highest, not the last inserted")
	assert.Equal(t, 20, emp.Balance)
}

func TestRegistry_RegisterEmptyRegistry(t *testing.T) {
	emp, err := memory.NewRegistry().Register(context.Background(), "", 20)
	require.NoError(t, err)
	assert.Equal(t, "0001", emp.ID)
	assert.Equal(t, "", emp.Name, "names are not validated")
}

func TestRegistry_RegisterWidensPast9999(t *testing.T) {
	ctx := context.Background()
	r := memory.NewRegistry()
	require.NoError(t, r.Insert(ctx, ledger.Employee{ID: "9999", Name: "Last", Balance: 20}))

	emp, err := r.Register(ctx, "Overflow", 20)
	require.NoError(t, err)
	assert.Equal(t, "10000", emp.ID)

	next, err := r.Register(ctx, "After", 20)
	require.NoError(t, err)
	assert.Equal(t, "10001", next.ID)
}

func TestRegistry_FindAndSetBalance(t *testing.T) {
	ctx := context.Background()
	r := memory.NewRegistry()
	require.NoError(t, r.Insert(ctx, ledger.Employee{ID: "0001", Name: "Wale", Balance: 20}))

	require.NoError(t, r.SetBalance(ctx, "0001", 7))
	emp, err := r.Find(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, 7, emp.Balance)

	_, err = r.Find(ctx, "1")
	assert.True(t, errors.Is(err, ledger.ErrEmployeeNotFound), "match is exact, not numeric")

	err = r.SetBalance(ctx, "0400", 1)
	assert.True(t, errors.Is(err, ledger.ErrEmployeeNotFound))
}

func TestRegistry_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	r := memory.NewRegistry()
	require.NoError(t, r.Insert(ctx, ledger.Employee{ID: "0001"}))
	assert.Error(t, r.Insert(ctx, ledger.Employee{ID: "0001"}))
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistory_FindByEmployeeKeepsOrder(t *testing.T) {
	ctx := context.Background()
	h := memory.NewHistory()
	require.NoError(t, h.Append(ctx, ledger.LeaveRecord{EmployeeID: "0001", Purpose: ledger.PurposeSick, Date: "2026-07-03"}))
	require.NoError(t, h.Append(ctx, ledger.LeaveRecord{EmployeeID: "0002", Purpose: ledger.PurposeOthers, Date: "2026-07-01"}))
	require.NoError(t, h.Append(ctx, ledger.LeaveRecord{EmployeeID: "0001", Purpose: ledger.PurposeVacation, Date: "2026-07-01"}))

	got, err := h.FindByEmployee(ctx, "0001")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-07-03", got[0].Date)
	assert.Equal(t, "2026-07-01", got[1].Date)
}

func TestHistory_RemoveMatching(t *testing.T) {
	ctx := context.Background()
	h := memory.NewHistory()
	for _, rec := range []ledger.LeaveRecord{
		{EmployeeID: "0001", Purpose: ledger.PurposeSick, Date: "2026-07-01"},
		{EmployeeID: "0001", Purpose: ledger.PurposeSick, Date: "2026-07-01"},
		{EmployeeID: "0001", Purpose: ledger.PurposeSick, Date: "2026-07-02"},
		{EmployeeID: "0002", Purpose: ledger.PurposeSick, Date: "2026-07-01"},
	} {
		require.NoError(t, h.Append(ctx, rec))
	}

	removed, err := h.RemoveMatching(ctx, "0001", []string{"2026-07-01"})
	require.NoError(t, err)
	assert.Len(t, removed, 2, "duplicate records on the same date are all removed")
	assert.Equal(t, 2, h.Len())

	other, err := h.FindByEmployee(ctx, "0002")
	require.NoError(t, err)
	assert.Len(t, other, 1, "other employees keep their records")
}

func TestHistory_RemoveMatchingNothing(t *testing.T) {
	ctx := context.Background()
	h := memory.NewHistory()
	require.NoError(t, h.Append(ctx, ledger.LeaveRecord{EmployeeID: "0001", Date: "2026-07-01"}))

	removed, err := h.RemoveMatching(ctx, "0001", []string{"2026-08-01"})
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.Equal(t, 1, h.Len())
}

// =============================================================================
// STORE
// =============================================================================

func TestStore_WithTxRollsBack(t *testing.T) {
	// GIVEN: a store with one employee
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Insert(ctx, ledger.Employee{ID: "0001", Name: "Wale", Balance: 20}))

	// WHEN: a transaction writes and then fails
	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx ledger.Store) error {
		require.NoError(t, tx.Append(ctx, ledger.LeaveRecord{EmployeeID: "0001", Date: "2026-07-01"}))
		require.NoError(t, tx.SetBalance(ctx, "0001", 19))
		_, err := tx.Register(ctx, "Ghost", 20)
		require.NoError(t, err)
		return boom
	})

	// THEN: nothing it wrote survives
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Len())
	emp, err := s.Find(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, 20, emp.Balance)
	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	_, err = s.Find(ctx, "0002")
	assert.ErrorIs(t, err, ledger.ErrEmployeeNotFound)
}

func TestStore_WithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Insert(ctx, ledger.Employee{ID: "0001", Name: "Wale", Balance: 20}))

	err := s.WithTx(ctx, func(tx ledger.Store) error {
		return tx.Append(ctx, ledger.LeaveRecord{EmployeeID: "0001", Date: "2026-07-01"})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestAuditLog_Query(t *testing.T) {
	ctx := context.Background()
	a := memory.NewAuditLog()
	require.NoError(t, a.Append(ctx, ledger.AuditEntry{ID: "a", EmployeeID: "0001", Action: ledger.AuditLeaveApplied}))
	require.NoError(t, a.Append(ctx, ledger.AuditEntry{ID: "b", EmployeeID: "0002", Action: ledger.AuditLeaveApplied}))

	mine, err := a.Query(ctx, "0001")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].ID)

	all, err := a.Query(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
