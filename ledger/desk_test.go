package ledger_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-ledger/ledger"
)

func newTestDesk(t *testing.T, opts ...func(*ledger.Options)) (*ledger.Desk, *fixture) {
	f := newFixture(t, opts...)
	return ledger.NewDesk(f.service), f
}

func TestDesk_RegisterEmployee(t *testing.T) {
	desk, _ := newTestDesk(t)

	msg, err := desk.RegisterEmployee(context.Background(), "Bolatito")
	require.NoError(t, err)
	assert.Equal(t,
		"Registration successful. Your employee ID is 0005 and you are entitled to a maximum of 20 days leave.",
		msg)
}

func TestDesk_ApplyForLeave_Messages(t *testing.T) {
	tests := []struct {
		name       string
		employeeID string
		dates      []string
		setup      func(t *testing.T, f *fixture)
		contains   []string
		wantErr    error
	}{
		{
			name:       "success",
			employeeID: "0001",
			dates:      []string{day(2), day(3)},
			contains:   []string{"successful", "18 leave days left", "'" + day(2) + "'"},
		},
		{
			name:       "invalid dates",
			employeeID: "0001",
			dates:      []string{day(-2), day(-3)},
			contains:   []string{"Error: Invalid leave dates", day(-2), day(-3)},
			wantErr:    ledger.ErrInvalidDate,
		},
		{
			name:       "unknown employee",
			employeeID: "0400",
			dates:      []string{day(2)},
			contains:   []string{"not found", "'0400'"},
			wantErr:    ledger.ErrEmployeeNotFound,
		},
		{
			name:       "insufficient balance",
			employeeID: "0004",
			dates:      []string{day(2), day(3)},
			setup: func(t *testing.T, f *fixture) {
				require.NoError(t, f.store.SetBalance(context.Background(), "0004", 1))
			},
			contains: []string{"Insufficient leave balance", "only 1 leave days left"},
			wantErr:  ledger.ErrInsufficientBalance,
		},
		{
			name:       "no dates",
			employeeID: "0001",
			contains:   []string{"No leave dates given"},
			wantErr:    ledger.ErrNoDates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desk, f := newTestDesk(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}

			msg, err := desk.ApplyForLeave(context.Background(), tt.employeeID, tt.dates, "sick")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.contains {
				assert.Contains(t, strings.ToLower(msg), strings.ToLower(want))
			}
		})
	}
}

func TestDesk_CancelLeaves_Messages(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		desk, _ := newTestDesk(t)
		_, err := desk.ApplyForLeave(ctx, "0002", []string{day(2)}, "vacation")
		require.NoError(t, err)

		msg, err := desk.CancelLeaves(ctx, "0002", []string{day(2)})
		require.NoError(t, err)
		assert.Equal(t, "Leave cancelled for ['"+day(2)+"']. 1 leave day(s) removed.", msg)
	})

	t.Run("success with restore", func(t *testing.T) {
		desk, _ := newTestDesk(t, func(o *ledger.Options) { o.RestoreOnCancel = true })
		_, err := desk.ApplyForLeave(ctx, "0002", []string{day(2)}, "vacation")
		require.NoError(t, err)

		msg, err := desk.CancelLeaves(ctx, "0002", []string{day(2)})
		require.NoError(t, err)
		assert.Contains(t, msg, "You now have 20 leave days left.")
	})

	t.Run("past date", func(t *testing.T) {
		desk, _ := newTestDesk(t)
		msg, err := desk.CancelLeaves(ctx, "0001", []string{"2025-06-01"})
		assert.ErrorIs(t, err, ledger.ErrInvalidDate)
		assert.Contains(t, msg, "An invalid date is found ['2025-06-01']")
	})

	t.Run("unreadable date", func(t *testing.T) {
		desk, _ := newTestDesk(t)
		msg, err := desk.CancelLeaves(ctx, "0001", []string{"not a date"})
		assert.ErrorIs(t, err, ledger.ErrParseFailure)
		assert.Contains(t, msg, "Could not read leave dates ['not a date']")
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		desk, _ := newTestDesk(t)
		msg, err := desk.CancelLeaves(ctx, "0001", []string{day(9)})
		assert.ErrorIs(t, err, ledger.ErrNoMatchingLeave)
		assert.Equal(t, "No leave taken by the employee for the date(s) given.", msg)
	})
}
