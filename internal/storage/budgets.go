package storage

import (
	"context"
	"fmt"
	"time"

	"huishoudboekje/internal/core"
)

// Ad-hoc sub-budgets. budget_expenses rows are cascade-deleted with their
// budget by the schema's foreign key.

func (r *SQLiteRepository) InsertBudget(ctx context.Context, b core.BudgetEntry) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO budget_entries (name, description, amount_cents, created_at) VALUES (?, ?, ?, ?)`,
		b.Name, b.Description, b.Amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert budget: %w", err)
	}
	r.log.InfoContext(ctx, "Budget saved", "id", id, "name", b.Name, "amount_cents", b.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.BudgetEntry) error {
	if err := b.Validate(); err != nil {
		return err
	}
	err := r.execExpectingRow(ctx,
		`UPDATE budget_entries SET name = ?, description = ?, amount_cents = ? WHERE id = ?`,
		b.Name, b.Description, b.Amount.Cents, b.ID)
	if err != nil {
		return fmt.Errorf("update budget %d: %w", b.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	if err := r.execExpectingRow(ctx, `DELETE FROM budget_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	r.log.InfoContext(ctx, "Budget deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.BudgetEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, amount_cents, created_at FROM budget_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetEntry
	for rows.Next() {
		var (
			b        core.BudgetEntry
			cents    int64
			createdAt time.Time
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Amount = core.Money{Cents: cents}
		b.CreatedAt = createdAt
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InsertBudgetExpense(ctx context.Context, e core.BudgetExpense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO budget_expenses (budget_id, description, amount_cents, created_at) VALUES (?, ?, ?, ?)`,
		e.BudgetID, e.Description, e.Amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert budget expense: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) DeleteBudgetExpense(ctx context.Context, id int64) error {
	if err := r.execExpectingRow(ctx, `DELETE FROM budget_expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete budget expense %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) BudgetExpenses(ctx context.Context, budgetID int64) ([]core.BudgetExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, budget_id, description, amount_cents, created_at
		 FROM budget_expenses WHERE budget_id = ? ORDER BY id`, budgetID)
	if err != nil {
		return nil, fmt.Errorf("query budget expenses: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetExpense
	for rows.Next() {
		var (
			e        core.BudgetExpense
			cents    int64
			createdAt time.Time
		)
		if err := rows.Scan(&e.ID, &e.BudgetID, &e.Description, &cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan budget expense: %w", err)
		}
		e.Amount = core.Money{Cents: cents}
		e.CreatedAt = createdAt
		out = append(out, e)
	}
	return out, rows.Err()
}
