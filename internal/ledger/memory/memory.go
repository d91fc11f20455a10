// Package memory provides an in-memory ledger store used by tests and the
// seed-free local mode.
package memory

import (
	"context"
	"sync"
	"time"

	"huishoudboekje/internal/core"
)

type Store struct {
	mu            sync.Mutex
	nextID        int64
	incomes       []core.Income
	taxes         []core.Tax
	expenses      []core.Expense
	discretionary []core.DiscretionaryExpense

	accounts       []core.BalanceAccount
	snapshots      []core.BalanceSnapshot
	budgets        []core.BudgetEntry
	budgetExpenses []core.BudgetExpense

	// FailInserts makes every insert fail with the given error. Tests use
	// it to exercise partial-write behavior.
	FailInserts error
}

func New() *Store {
	return &Store{nextID: 1}
}

func (s *Store) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) InsertIncome(_ context.Context, in core.Income) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts != nil {
		return 0, s.FailInserts
	}
	in.ID = s.id()
	in.CreatedAt = time.Now()
	s.incomes = append(s.incomes, in)
	return in.ID, nil
}

func (s *Store) InsertTax(_ context.Context, t core.Tax) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts != nil {
		return 0, s.FailInserts
	}
	t.ID = s.id()
	t.CreatedAt = time.Now()
	s.taxes = append(s.taxes, t)
	return t.ID, nil
}

func (s *Store) InsertExpense(_ context.Context, e core.Expense) (int64, error) {
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
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) InsertDiscretionary(_ context.Context, d core.DiscretionaryExpense) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts != nil {
		return 0, s.FailInserts
	}
	d.ID = s.id()
	d.CreatedAt = time.Now()
	s.discretionary = append(s.discretionary, d)
	return d.ID, nil
}

func (s *Store) IncomesByMonth(_ context.Context, m core.MonthKey) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Income
	for _, in := range s.incomes {
		if in.Month == m {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *Store) TaxesByMonth(_ context.Context, m core.MonthKey) ([]core.Tax, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Tax
	for _, t := range s.taxes {
		if t.Month == m {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) ExpensesByMonth(_ context.Context, m core.MonthKey) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.Month == m {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) DiscretionaryByMonth(_ context.Context, m core.MonthKey) ([]core.DiscretionaryExpense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.DiscretionaryExpense
	for _, d := range s.discretionary {
		if d.Month == m {
			out = append(out, d)
		}
	}
	return out, nil
}
