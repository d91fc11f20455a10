// Package ledger defines the ports the budgeting services use to reach the
// data store. The SQLite repository is the production implementation; the
// memory subpackage backs tests.
package ledger

import (
	"context"

	"huishoudboekje/internal/core"
)

// MonthData is the full row set of one month across the ledger kinds.
type MonthData struct {
	Month         core.MonthKey
	Incomes       []core.Income
	Taxes         []core.Tax
	Expenses      []core.Expense
	Discretionary []core.DiscretionaryExpense
}

// PrimaryEmpty reports whether the three primary ledgers (income, tax,
// expense) hold no rows. Discretionary rows do not count: they are never
// auto-carried and must not suppress a carry-over.
func (d MonthData) PrimaryEmpty() bool {
	return len(d.Incomes) == 0 && len(d.Taxes) == 0 && len(d.Expenses) == 0
}

type (
	// Reader fetches month-keyed ledger rows.
	Reader interface {
		IncomesByMonth(ctx context.Context, m core.MonthKey) ([]core.Income, error)
		TaxesByMonth(ctx context.Context, m core.MonthKey) ([]core.Tax, error)
		ExpensesByMonth(ctx context.Context, m core.MonthKey) ([]core.Expense, error)
		DiscretionaryByMonth(ctx context.Context, m core.MonthKey) ([]core.DiscretionaryExpense, error)
	}

	// Writer inserts ledger rows. Implementations assign identity and
	// creation timestamp and return the new id.
	Writer interface {
		InsertIncome(ctx context.Context, in core.Income) (int64, error)
		InsertTax(ctx context.Context, t core.Tax) (int64, error)
		InsertExpense(ctx context.Context, e core.Expense) (int64, error)
		InsertDiscretionary(ctx context.Context, d core.DiscretionaryExpense) (int64, error)
	}

	// Store combines read and write access.
	Store interface {
		Reader
		Writer
	}
)
