// Package render formats ledger views as text for callers.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/warp/leave-ledger/ledger"
)

const separator = "\n---\n"

// History renders an employee's leave history as markdown: a header with
// name and balance, then one block per record separated by rules.
//
//	### Leave History
//	**Employee Name:** Wale
//	**Leave Balance:** 20
//
//	---
//
//	Date: 2025-06-01
//	Purpose: Sick
func History(h ledger.History) string {
	var b strings.Builder
	b.WriteString("### Leave History\n")
	fmt.Fprintf(&b, "**Employee Name:** %s\n", h.EmployeeName)
	fmt.Fprintf(&b, "**Leave Balance:** %d\n", h.Balance)
	b.WriteString(separator)

	if len(h.Records) == 0 {
		b.WriteString("\nNo leave taken.\n")
		return b.String()
	}

	blocks := make([]string, len(h.Records))
	for i, rec := range h.Records {
		blocks[i] = Record(rec)
	}
	b.WriteString(strings.Join(blocks, separator))
	return b.String()
}

// Record renders one leave record block.
func Record(rec ledger.LeaveRecord) string {
	return fmt.Sprintf("\nDate: %s\nPurpose: %s\n", rec.Date, Purpose(rec.Purpose))
}

// Purpose capitalises a purpose for display: "sick" -> "Sick".
func Purpose(p ledger.Purpose) string {
	// a Caser is stateful, so one per call
	return cases.Title(language.English).String(string(p))
}
