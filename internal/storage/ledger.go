package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"huishoudboekje/internal/core"
)

// Ledger row access. Implements ledger.Store.

func (r *SQLiteRepository) InsertIncome(ctx context.Context, in core.Income) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO incomes (member, month, description, amount_cents, income_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(in.Member), in.Month.String(), in.Description, in.Amount.Cents, string(in.Type))
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	r.log.InfoContext(ctx, "Income saved",
		"id", id, "member", in.Member, "month", in.Month.String(), "amount_cents", in.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, in core.Income) error {
	if err := in.Validate(); err != nil {
		return err
	}
	err := r.execExpectingRow(ctx,
		`UPDATE incomes SET member = ?, month = ?, description = ?, amount_cents = ?, income_type = ?
		 WHERE id = ?`,
		string(in.Member), in.Month.String(), in.Description, in.Amount.Cents, string(in.Type), in.ID)
	if err != nil {
		return fmt.Errorf("update income %d: %w", in.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64) error {
	if err := r.execExpectingRow(ctx, `DELETE FROM incomes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) IncomesByMonth(ctx context.Context, m core.MonthKey) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member, month, description, amount_cents, income_type, created_at
		 FROM incomes WHERE month = ? ORDER BY id`, m.String())
	if err != nil {
		return nil, fmt.Errorf("query incomes by month: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var (
			in       core.Income
			member   string
			month    string
			itype    string
			cents    int64
			createdAt time.Time
		)
		if err := rows.Scan(&in.ID, &member, &month, &in.Description, &cents, &itype, &createdAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		in.Member = core.Member(member)
		if in.Month, err = scanMonth(month); err != nil {
			return nil, err
		}
		in.Amount = core.Money{Cents: cents}
		in.Type = core.IncomeType(itype)
		in.CreatedAt = createdAt
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InsertTax(ctx context.Context, t core.Tax) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO taxes (member, month, description, amount_cents, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(t.Member), t.Month.String(), t.Description, t.Amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert tax: %w", err)
	}
	r.log.InfoContext(ctx, "Tax saved",
		"id", id, "member", t.Member, "month", t.Month.String(), "amount_cents", t.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateTax(ctx context.Context, t core.Tax) error {
	if err := t.Validate(); err != nil {
		return err
	}
	err := r.execExpectingRow(ctx,
		`UPDATE taxes SET member = ?, month = ?, description = ?, amount_cents = ? WHERE id = ?`,
		string(t.Member), t.Month.String(), t.Description, t.Amount.Cents, t.ID)
	if err != nil {
		return fmt.Errorf("update tax %d: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTax(ctx context.Context, id int64) error {
	if err := r.execExpectingRow(ctx, `DELETE FROM taxes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete tax %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) TaxesByMonth(ctx context.Context, m core.MonthKey) ([]core.Tax, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member, month, description, amount_cents, created_at
		 FROM taxes WHERE month = ? ORDER BY id`, m.String())
	if err != nil {
		return nil, fmt.Errorf("query taxes by month: %w", err)
	}
	defer rows.Close()

	var out []core.Tax
	for rows.Next() {
		var (
			t        core.Tax
			member   string
			month    string
			cents    int64
			createdAt time.Time
		)
		if err := rows.Scan(&t.ID, &member, &month, &t.Description, &cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan tax: %w", err)
		}
		t.Member = core.Member(member)
		if t.Month, err = scanMonth(month); err != nil {
			return nil, err
		}
		t.Amount = core.Money{Cents: cents}
		t.CreatedAt = createdAt
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	var accountID sql.NullInt64
	if e.BalanceAccountID != nil {
		accountID = sql.NullInt64{Int64: *e.BalanceAccountID, Valid: true}
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO expenses (member, month, description, amount_cents, category,
		                       is_shared, is_recurring, is_paid, include_vat, note,
		                       balance_account_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(e.Member), e.Month.String(), e.Description, e.Amount.Cents, string(e.Category),
		e.Shared, e.Recurring, e.Paid, e.IncludeVAT, e.Note, accountID)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	r.log.InfoContext(ctx, "Expense saved",
		"id", id, "member", e.Member, "month", e.Month.String(),
		"category", e.Category, "amount_cents", e.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	var accountID sql.NullInt64
	if e.BalanceAccountID != nil {
		accountID = sql.NullInt64{Int64: *e.BalanceAccountID, Valid: true}
	}
	err := r.execExpectingRow(ctx,
		`UPDATE expenses SET member = ?, month = ?, description = ?, amount_cents = ?, category = ?,
		        is_shared = ?, is_recurring = ?, is_paid = ?, include_vat = ?, note = ?,
		        balance_account_id = ?
		 WHERE id = ?`,
		string(e.Member), e.Month.String(), e.Description, e.Amount.Cents, string(e.Category),
		e.Shared, e.Recurring, e.Paid, e.IncludeVAT, e.Note, accountID, e.ID)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	if err := r.execExpectingRow(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

const expenseColumns = `id, member, month, description, amount_cents, category,
	is_shared, is_recurring, is_paid, include_vat, note, balance_account_id, created_at`

func (r *SQLiteRepository) scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		var (
			e        core.Expense
			member   string
			month    string
			category string
			cents    int64
			accountID sql.NullInt64
			createdAt time.Time
			err      error
		)
		if err = rows.Scan(&e.ID, &member, &month, &e.Description, &cents, &category,
			&e.Shared, &e.Recurring, &e.Paid, &e.IncludeVAT, &e.Note, &accountID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Member = core.Member(member)
		if e.Month, err = scanMonth(month); err != nil {
			return nil, err
		}
		e.Amount = core.Money{Cents: cents}
		e.Category = core.ExpenseCategory(category)
		if accountID.Valid {
			id := accountID.Int64
			e.BalanceAccountID = &id
		}
		e.CreatedAt = createdAt
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ExpensesByMonth(ctx context.Context, m core.MonthKey) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE month = ? ORDER BY id`, m.String())
	if err != nil {
		return nil, fmt.Errorf("query expenses by month: %w", err)
	}
	defer rows.Close()
	return r.scanExpenses(rows)
}

// ExpensesByAccount returns every expense referencing the account across
// all months. The projection engine filters by paid flag and month.
func (r *SQLiteRepository) ExpensesByAccount(ctx context.Context, accountID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE balance_account_id = ? ORDER BY month, id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query expenses by account: %w", err)
	}
	defer rows.Close()
	return r.scanExpenses(rows)
}

func (r *SQLiteRepository) InsertDiscretionary(ctx context.Context, d core.DiscretionaryExpense) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO unnecessary_expenses (member, month, description, amount_cents, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(d.Member), d.Month.String(), d.Description, d.Amount.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert discretionary expense: %w", err)
	}
	r.log.InfoContext(ctx, "Discretionary expense saved",
		"id", id, "member", d.Member, "month", d.Month.String(), "amount_cents", d.Amount.Cents)
	return id, nil
}

func (r *SQLiteRepository) UpdateDiscretionary(ctx context.Context, d core.DiscretionaryExpense) error {
	if err := d.Validate(); err != nil {
		return err
	}
	err := r.execExpectingRow(ctx,
		`UPDATE unnecessary_expenses SET member = ?, month = ?, description = ?, amount_cents = ?
		 WHERE id = ?`,
		string(d.Member), d.Month.String(), d.Description, d.Amount.Cents, d.ID)
	if err != nil {
		return fmt.Errorf("update discretionary expense %d: %w", d.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteDiscretionary(ctx context.Context, id int64) error {
	if err := r.execExpectingRow(ctx, `DELETE FROM unnecessary_expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete discretionary expense %d: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) DiscretionaryByMonth(ctx context.Context, m core.MonthKey) ([]core.DiscretionaryExpense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member, month, description, amount_cents, created_at
		 FROM unnecessary_expenses WHERE month = ? ORDER BY id`, m.String())
	if err != nil {
		return nil, fmt.Errorf("query discretionary expenses by month: %w", err)
	}
	defer rows.Close()

	var out []core.DiscretionaryExpense
	for rows.Next() {
		var (
			d        core.DiscretionaryExpense
			member   string
			month    string
			cents    int64
			createdAt time.Time
		)
		if err := rows.Scan(&d.ID, &member, &month, &d.Description, &cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan discretionary expense: %w", err)
		}
		d.Member = core.Member(member)
		if d.Month, err = scanMonth(month); err != nil {
			return nil, err
		}
		d.Amount = core.Money{Cents: cents}
		d.CreatedAt = createdAt
		out = append(out, d)
	}
	return out, rows.Err()
}
