package memory

import (
	"context"
	"fmt"
	"time"

	"huishoudboekje/internal/core"
)

// The remainder of the repository surface: updates, deletes, balance
// accounts, budgets and snapshots. Together with the ledger methods this
// makes Store a drop-in repository for the HTTP server in tests and the
// database-free local mode.

// ErrNoSuchRow is returned when an update or delete misses.
var ErrNoSuchRow = fmt.Errorf("memory: no such row")

func (s *Store) UpdateIncome(_ context.Context, in core.Income) error {
	if err := in.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.incomes {
		if s.incomes[i].ID == in.ID {
			in.CreatedAt = s.incomes[i].CreatedAt
			s.incomes[i] = in
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) DeleteIncome(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.incomes {
		if s.incomes[i].ID == id {
			s.incomes = append(s.incomes[:i], s.incomes[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) UpdateTax(_ context.Context, t core.Tax) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.taxes {
		if s.taxes[i].ID == t.ID {
			t.CreatedAt = s.taxes[i].CreatedAt
			s.taxes[i] = t
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) DeleteTax(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.taxes {
		if s.taxes[i].ID == id {
			s.taxes = append(s.taxes[:i], s.taxes[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == e.ID {
			e.CreatedAt = s.expenses[i].CreatedAt
			s.expenses[i] = e
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) UpdateDiscretionary(_ context.Context, d core.DiscretionaryExpense) error {
	if err := d.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.discretionary {
		if s.discretionary[i].ID == d.ID {
			d.CreatedAt = s.discretionary[i].CreatedAt
			s.discretionary[i] = d
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) DeleteDiscretionary(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.discretionary {
		if s.discretionary[i].ID == id {
			s.discretionary = append(s.discretionary[:i], s.discretionary[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) ExpensesByAccount(_ context.Context, accountID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.BalanceAccountID != nil && *e.BalanceAccountID == accountID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) InsertBalanceAccount(_ context.Context, a core.BalanceAccount) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts != nil {
		return 0, s.FailInserts
	}
	a.ID = s.id()
	a.CreatedAt = time.Now()
	s.accounts = append(s.accounts, a)
	return a.ID, nil
}

func (s *Store) UpdateBalanceAccount(_ context.Context, a core.BalanceAccount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == a.ID {
			a.CreatedAt = s.accounts[i].CreatedAt
			s.accounts[i] = a
			return nil
		}
	}
	return ErrNoSuchRow
}

// DeleteBalanceAccount mirrors the SQL repository's cascade: expense links
// are nulled and history rows dropped before the account goes.
func (s *Store) DeleteBalanceAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].BalanceAccountID != nil && *s.expenses[i].BalanceAccountID == id {
			s.expenses[i].BalanceAccountID = nil
		}
	}
	var history []core.BalanceSnapshot
	for _, snap := range s.snapshots {
		if snap.AccountID != id {
			history = append(history, snap)
		}
	}
	s.snapshots = history
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) GetBalanceAccount(_ context.Context, id int64) (core.BalanceAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return core.BalanceAccount{}, ErrNoSuchRow
}

func (s *Store) ListBalanceAccounts(_ context.Context) ([]core.BalanceAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.BalanceAccount, len(s.accounts))
	copy(out, s.accounts)
	return out, nil
}

func (s *Store) InsertSnapshot(_ context.Context, snap core.BalanceSnapshot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts != nil {
		return 0, s.FailInserts
	}
	snap.ID = s.id()
	snap.CreatedAt = time.Now()
	s.snapshots = append(s.snapshots, snap)
	return snap.ID, nil
}

func (s *Store) SnapshotsByAccount(_ context.Context, accountID int64) ([]core.BalanceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.BalanceSnapshot
	for _, snap := range s.snapshots {
		if snap.AccountID == accountID {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *Store) InsertBudget(_ context.Context, b core.BudgetEntry) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts != nil {
		return 0, s.FailInserts
	}
	b.ID = s.id()
	b.CreatedAt = time.Now()
	s.budgets = append(s.budgets, b)
	return b.ID, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.BudgetEntry) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == b.ID {
			b.CreatedAt = s.budgets[i].CreatedAt
			s.budgets[i] = b
			return nil
		}
	}
	return ErrNoSuchRow
}

// DeleteBudget drops the budget and every expense recorded under it.
func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []core.BudgetExpense
	for _, e := range s.budgetExpenses {
		if e.BudgetID != id {
			kept = append(kept, e)
		}
	}
	s.budgetExpenses = kept
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) ListBudgets(_ context.Context) ([]core.BudgetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.BudgetEntry, len(s.budgets))
	copy(out, s.budgets)
	return out, nil
}

func (s *Store) InsertBudgetExpense(_ context.Context, e core.BudgetExpense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts != nil {
		return 0, s.FailInserts
	}
	e.ID = s.id()
	e.CreatedAt = time.Now()
	s.budgetExpenses = append(s.budgetExpenses, e)
	return e.ID, nil
}

func (s *Store) DeleteBudgetExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgetExpenses {
		if s.budgetExpenses[i].ID == id {
			s.budgetExpenses = append(s.budgetExpenses[:i], s.budgetExpenses[i+1:]...)
			return nil
		}
	}
	return ErrNoSuchRow
}

func (s *Store) BudgetExpenses(_ context.Context, budgetID int64) ([]core.BudgetExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.BudgetExpense
	for _, e := range s.budgetExpenses {
		if e.BudgetID == budgetID {
			out = append(out, e)
		}
	}
	return out, nil
}
