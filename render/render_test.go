package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/leave-ledger/ledger"
	"github.com/warp/leave-ledger/render"
)

func TestHistory(t *testing.T) {
	h := ledger.History{
		EmployeeID:   "0001",
		EmployeeName: "Wale",
		Balance:      17,
		Records: []ledger.LeaveRecord{
			{EmployeeID: "0001", Purpose: ledger.PurposeSick, Date: "2025-06-01"},
			{EmployeeID: "0001", Purpose: ledger.PurposeVacation, Date: "2025-06-05"},
		},
	}

	want := "### Leave History\n" +
		"**Employee Name:** Wale\n" +
		"**Leave Balance:** 17\n" +
		"\n---\n" +
		"\nDate: 2025-06-01\nPurpose: Sick\n" +
		"\n---\n" +
		"\nDate: 2025-06-05\nPurpose: Vacation\n"

	assert.Equal(t, want, render.History(h))
}

func TestHistory_NoRecords(t *testing.T) {
	out := render.History(ledger.History{EmployeeName: "Bolatito", Balance: 20})

	assert.Contains(t, out, "**Employee Name:** Bolatito")
	assert.Contains(t, out, "No leave taken.")
	assert.Equal(t, 1, strings.Count(out, "---"))
}

func TestPurpose(t *testing.T) {
	assert.Equal(t, "Others", render.Purpose(ledger.PurposeOthers))
	assert.Equal(t, "Paternity", render.Purpose(ledger.PurposePaternity))
}
