// Package services provides the orchestration layer between the HTTP
// handlers and the store: month loading with automatic carry-over, manual
// partial carry-over, and statement handling.
package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"huishoudboekje/internal/core"
	"huishoudboekje/internal/ledger"
	applog "huishoudboekje/internal/log"
)

// EventPublisher publishes budget events for asynchronous consumers. A nil
// publisher disables events; publishing failures never fail the operation
// that triggered them.
type EventPublisher interface {
	PublishMonthCarried(ctx context.Context, m core.MonthKey, rows int) error
}

// CarryOverOrchestrator loads a month's ledger and decides whether to
// auto-populate it from its predecessor. The carried set is explicit
// per-orchestrator state, constructed fresh per process: it only guards
// against re-carrying within this session, not across concurrent sessions.
type CarryOverOrchestrator struct {
	store  ledger.Store
	events EventPublisher

	mu      sync.Mutex
	carried map[core.MonthKey]struct{}
}

func NewCarryOverOrchestrator(store ledger.Store, events EventPublisher) *CarryOverOrchestrator {
	return &CarryOverOrchestrator{
		store:   store,
		events:  events,
		carried: make(map[core.MonthKey]struct{}),
	}
}

// fetchMonth reads all four ledger kinds for m. The queries are independent,
// so they run concurrently.
func (o *CarryOverOrchestrator) fetchMonth(ctx context.Context, m core.MonthKey) (ledger.MonthData, error) {
	data := ledger.MonthData{Month: m}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Incomes, err = o.store.IncomesByMonth(gctx, m)
		return err
	})
	g.Go(func() (err error) {
		data.Taxes, err = o.store.TaxesByMonth(gctx, m)
		return err
	})
	g.Go(func() (err error) {
		data.Expenses, err = o.store.ExpensesByMonth(gctx, m)
		return err
	})
	g.Go(func() (err error) {
		data.Discretionary, err = o.store.DiscretionaryByMonth(gctx, m)
		return err
	})
	if err := g.Wait(); err != nil {
		return ledger.MonthData{}, err
	}
	return data, nil
}

// markCarried records m in the guard set. It returns false when the month
// was already marked, which suppresses a second auto-carry attempt even if
// two loads of the same month overlap.
func (o *CarryOverOrchestrator) markCarried(m core.MonthKey) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.carried[m]; ok {
		return false
	}
	o.carried[m] = struct{}{}
	return true
}

func (o *CarryOverOrchestrator) unmarkCarried(m core.MonthKey) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.carried, m)
}

// Carried reports whether m has been auto-carried in this session.
func (o *CarryOverOrchestrator) Carried(m core.MonthKey) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.carried[m]
	return ok
}

// LoadMonth fetches the month's rows and, when all three primary ledgers
// are empty and the month has not been carried this session, clones the
// previous month's income, tax and expense rows into it. It returns the
// final row set and whether a carry-over ran.
//
// The guard is set before the copy starts; on any insert failure it is
// rolled back so the next selection of the month retries. Rows inserted
// before the failure are not reversed.
func (o *CarryOverOrchestrator) LoadMonth(ctx context.Context, m core.MonthKey) (ledger.MonthData, bool, error) {
	data, err := o.fetchMonth(ctx, m)
	if err != nil {
		return ledger.MonthData{}, false, err
	}
	if !data.PrimaryEmpty() || !o.markCarried(m) {
		return data, false, nil
	}

	rows, err := o.carryFromPredecessor(ctx, m)
	if err != nil {
		o.unmarkCarried(m)
		return ledger.MonthData{}, false, err
	}
	if rows == 0 {
		// Predecessor was empty too: nothing to copy, month stays marked.
		return data, false, nil
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentCarryOver).InfoContext(ctx, "Auto-carried previous month",
		"month", m.String(),
		"rows", rows)

	if o.events != nil {
		if err := o.events.PublishMonthCarried(ctx, m, rows); err != nil {
			// Events are advisory; the carry-over already succeeded.
			applog.FromContext(ctx).WithComponent(applog.ComponentCarryOver).ErrorContext(ctx, "Failed to publish month-carried event",
				"month", m.String(), "error", err)
		}
	}

	// Re-fetch without re-triggering the carry; the month is marked.
	data, err = o.fetchMonth(ctx, m)
	if err != nil {
		return ledger.MonthData{}, false, err
	}
	return data, true, nil
}

// carryFromPredecessor copies the previous month's primary rows into m and
// returns how many rows it inserted. Kinds are written in a fixed order;
// there is no cross-kind transaction.
func (o *CarryOverOrchestrator) carryFromPredecessor(ctx context.Context, m core.MonthKey) (int, error) {
	prev, err := o.fetchMonth(ctx, m.Prev())
	if err != nil {
		return 0, err
	}
	if prev.PrimaryEmpty() {
		return 0, nil
	}

	inserted := 0
	for _, in := range prev.Incomes {
		clone := in
		clone.ID = 0
		clone.CreatedAt = time.Time{}
		clone.Month = m
		if _, err := o.store.InsertIncome(ctx, clone); err != nil {
			return inserted, &PartialWriteError{Op: "carry-over", Kind: "income", Inserted: inserted, Err: err}
		}
		inserted++
	}
	for _, t := range prev.Taxes {
		clone := t
		clone.ID = 0
		clone.CreatedAt = time.Time{}
		clone.Month = m
		if _, err := o.store.InsertTax(ctx, clone); err != nil {
			return inserted, &PartialWriteError{Op: "carry-over", Kind: "tax", Inserted: inserted, Err: err}
		}
		inserted++
	}
	for _, e := range prev.Expenses {
		clone := e
		clone.ID = 0
		clone.CreatedAt = time.Time{}
		clone.Month = m
		if _, err := o.store.InsertExpense(ctx, clone); err != nil {
			return inserted, &PartialWriteError{Op: "carry-over", Kind: "expense", Inserted: inserted, Err: err}
		}
		inserted++
	}
	return inserted, nil
}

// CarrySelected inserts the given expenses as new rows in the target month,
// preserving every field except identity, timestamp and month. There is no
// duplicate guard: carrying the same rows twice yields duplicates, which the
// manual dialog explicitly allows.
func (o *CarryOverOrchestrator) CarrySelected(ctx context.Context, target core.MonthKey, expenses []core.Expense) (int, error) {
	inserted := 0
	for _, e := range expenses {
		clone := e
		clone.ID = 0
		clone.CreatedAt = time.Time{}
		clone.Month = target
		if _, err := o.store.InsertExpense(ctx, clone); err != nil {
			return inserted, &PartialWriteError{Op: "manual carry-over", Kind: "expense", Inserted: inserted, Err: err}
		}
		inserted++
	}
	applog.FromContext(ctx).WithComponent(applog.ComponentCarryOver).InfoContext(ctx, "Carried selected expenses",
		"month", target.String(),
		"rows", inserted)
	return inserted, nil
}

// PreselectRecurring returns the expenses the manual carry-over dialog
// pre-selects: those flagged recurring. The caller is free to adjust the
// selection before confirming.
func PreselectRecurring(expenses []core.Expense) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if e.Recurring {
			out = append(out, e)
		}
	}
	return out
}
