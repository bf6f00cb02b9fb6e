package ledger

import (
	"context"
	"fmt"
)

// SeedData is the initial content of the registry and history log.
type SeedData struct {
	Employees []Employee
	Records   []LeaveRecord
}

// DefaultSeed returns the dataset loaded at startup.
func DefaultSeed() SeedData {
	return SeedData{
		Employees: []Employee{
			{ID: "0001", Name: "Wale", Balance: DefaultEntitlement},
			{ID: "0002", Name: "Seun", Balance: DefaultEntitlement},
			{ID: "0003", Name: "Kayode", Balance: DefaultEntitlement},
			{ID: "0004", Name: "Adeola", Balance: DefaultEntitlement},
		},
		Records: []LeaveRecord{
			{EmployeeID: "0001", Purpose: PurposeSick, Date: "2025-06-01"},
			{EmployeeID: "0001", Purpose: PurposeVacation, Date: "2025-06-05"},
			{EmployeeID: "0001", Purpose: PurposeSick, Date: "2025-06-10"},
			{EmployeeID: "0001", Purpose: PurposeSick, Date: "2025-06-16"},
			{EmployeeID: "0002", Purpose: PurposeOthers, Date: "2025-06-12"},
		},
	}
}

// Seed writes data into store as-is. Historical records bypass date
// validation; they describe leave already taken.
func Seed(ctx context.Context, store Store, data SeedData) error {
	return store.WithTx(ctx, func(tx Store) error {
		for _, emp := range data.Employees {
			if err := tx.Insert(ctx, emp); err != nil {
				return fmt.Errorf("seed employee %s: %w", emp.ID, err)
			}
		}
		for _, rec := range data.Records {
			if err := tx.Append(ctx, rec); err != nil {
				return fmt.Errorf("seed leave record for %s: %w", rec.EmployeeID, err)
			}
		}
		return nil
	})
}
