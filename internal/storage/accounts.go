package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"huishoudboekje/internal/core"
)

func (r *SQLiteRepository) InsertBalanceAccount(ctx context.Context, a core.BalanceAccount) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO balance_accounts (name, description, initial_balance_cents, monthly_deduction_cents, start_month, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.Description, a.InitialBalance.Cents, a.MonthlyDeduction.Cents, a.StartMonth.String())
	if err != nil {
		return 0, fmt.Errorf("insert balance account: %w", err)
	}
	r.log.InfoContext(ctx, "Balance account saved",
		"id", id, "name", a.Name,
		"initial_balance_cents", a.InitialBalance.Cents,
		"monthly_deduction_cents", a.MonthlyDeduction.Cents,
		"start_month", a.StartMonth.String())
	return id, nil
}

func (r *SQLiteRepository) UpdateBalanceAccount(ctx context.Context, a core.BalanceAccount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	err := r.execExpectingRow(ctx,
		`UPDATE balance_accounts
		 SET name = ?, description = ?, initial_balance_cents = ?, monthly_deduction_cents = ?, start_month = ?
		 WHERE id = ?`,
		a.Name, a.Description, a.InitialBalance.Cents, a.MonthlyDeduction.Cents, a.StartMonth.String(), a.ID)
	if err != nil {
		return fmt.Errorf("update balance account %d: %w", a.ID, err)
	}
	return nil
}

// DeleteBalanceAccount removes the account and its snapshots, and nulls the
// weak reference on expenses pointing at it. The steps are independent
// statements, not one transaction: a failure partway leaves earlier steps
// applied, matching the documented best-effort cascade.
func (r *SQLiteRepository) DeleteBalanceAccount(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET balance_account_id = NULL WHERE balance_account_id = ?`, id); err != nil {
		return fmt.Errorf("null expense references for account %d: %w", id, err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM balance_history WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("delete snapshots for account %d: %w", id, err)
	}
	if err := r.execExpectingRow(ctx, `DELETE FROM balance_accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete balance account %d: %w", id, err)
	}
	r.log.InfoContext(ctx, "Balance account deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) GetBalanceAccount(ctx context.Context, id int64) (core.BalanceAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, initial_balance_cents, monthly_deduction_cents, start_month, created_at
		 FROM balance_accounts WHERE id = ?`, id)
	a, err := scanBalanceAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BalanceAccount{}, fmt.Errorf("get balance account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.BalanceAccount{}, fmt.Errorf("get balance account %d: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListBalanceAccounts(ctx context.Context) ([]core.BalanceAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, initial_balance_cents, monthly_deduction_cents, start_month, created_at
		 FROM balance_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list balance accounts: %w", err)
	}
	defer rows.Close()

	var out []core.BalanceAccount
	for rows.Next() {
		a, err := scanBalanceAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBalanceAccount(row rowScanner) (core.BalanceAccount, error) {
	var (
		a          core.BalanceAccount
		initial    int64
		deduction  int64
		startMonth string
		createdAt  time.Time
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &initial, &deduction, &startMonth, &createdAt); err != nil {
		return core.BalanceAccount{}, err
	}
	a.InitialBalance = core.Money{Cents: initial}
	a.MonthlyDeduction = core.Money{Cents: deduction}
	var err error
	if a.StartMonth, err = scanMonth(startMonth); err != nil {
		return core.BalanceAccount{}, err
	}
	a.CreatedAt = createdAt
	return a, nil
}

func (r *SQLiteRepository) InsertSnapshot(ctx context.Context, s core.BalanceSnapshot) (int64, error) {
	if err := s.Month.Validate(); err != nil {
		return 0, err
	}
	id, _, err := r.insertReturningID(ctx,
		`INSERT INTO balance_history (account_id, month, balance_cents, created_at)
		 VALUES (?, ?, ?, ?)`,
		s.AccountID, s.Month.String(), s.Balance.Cents)
	if err != nil {
		return 0, fmt.Errorf("insert balance snapshot: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) SnapshotsByAccount(ctx context.Context, accountID int64) ([]core.BalanceSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, month, balance_cents, created_at
		 FROM balance_history WHERE account_id = ? ORDER BY month, id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by account: %w", err)
	}
	defer rows.Close()

	var out []core.BalanceSnapshot
	for rows.Next() {
		var (
			s        core.BalanceSnapshot
			month    string
			cents    int64
			createdAt time.Time
		)
		if err := rows.Scan(&s.ID, &s.AccountID, &month, &cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan balance snapshot: %w", err)
		}
		if s.Month, err = scanMonth(month); err != nil {
			return nil, err
		}
		s.Balance = core.Money{Cents: cents}
		s.CreatedAt = createdAt
		out = append(out, s)
	}
	return out, rows.Err()
}
