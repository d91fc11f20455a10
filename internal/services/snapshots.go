package services

import (
	"context"
	"fmt"

	"huishoudboekje/internal/core"
	"huishoudboekje/internal/export"
	"huishoudboekje/internal/ledger"
	applog "huishoudboekje/internal/log"
)

// SnapshotStore is what snapshot recording needs from the repository.
type SnapshotStore interface {
	ListBalanceAccounts(ctx context.Context) ([]core.BalanceAccount, error)
	ExpensesByAccount(ctx context.Context, accountID int64) ([]core.Expense, error)
	InsertSnapshot(ctx context.Context, s core.BalanceSnapshot) (int64, error)
}

// SnapshotService records balance history when a month is carried and
// optionally pushes the month's household summary to an external sheet.
type SnapshotService struct {
	store   SnapshotStore
	reader  ledger.Reader
	summary export.SummaryWriter // nil disables the export
}

func NewSnapshotService(store SnapshotStore, reader ledger.Reader, summary export.SummaryWriter) *SnapshotService {
	return &SnapshotService{store: store, reader: reader, summary: summary}
}

// RecordMonth writes one balance history row per account, valued by the
// actual model at m. A single failing account aborts; the message is
// requeued and the whole month retried, so duplicate snapshot rows for
// already-written accounts are possible and harmless (history queries take
// the latest row per month).
func (s *SnapshotService) RecordMonth(ctx context.Context, m core.MonthKey) error {
	accounts, err := s.store.ListBalanceAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list balance accounts: %w", err)
	}

	for _, a := range accounts {
		expenses, err := s.store.ExpensesByAccount(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("load expenses for account %d: %w", a.ID, err)
		}
		snap := core.BalanceSnapshot{
			AccountID: a.ID,
			Month:     m,
			Balance:   core.ActualBalance(a, m, expenses),
		}
		if _, err := s.store.InsertSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("insert snapshot for account %d: %w", a.ID, err)
		}
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentWorker).InfoContext(ctx, "Recorded balance snapshots",
		"month", m.String(), "accounts", len(accounts))

	if s.summary != nil {
		if err := s.exportSummary(ctx, m); err != nil {
			// Export is an add-on; the snapshots are already recorded.
			applog.FromContext(ctx).WithComponent(applog.ComponentWorker).ErrorContext(ctx, "Failed to export month summary",
				"month", m.String(), "error", err)
		}
	}
	return nil
}

func (s *SnapshotService) exportSummary(ctx context.Context, m core.MonthKey) error {
	incomes, err := s.reader.IncomesByMonth(ctx, m)
	if err != nil {
		return fmt.Errorf("load incomes: %w", err)
	}
	taxes, err := s.reader.TaxesByMonth(ctx, m)
	if err != nil {
		return fmt.Errorf("load taxes: %w", err)
	}
	expenses, err := s.reader.ExpensesByMonth(ctx, m)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	discretionary, err := s.reader.DiscretionaryByMonth(ctx, m)
	if err != nil {
		return fmt.Errorf("load discretionary expenses: %w", err)
	}

	summary := core.SummarizeHousehold(incomes, taxes, expenses, discretionary)
	return s.summary.AppendMonthSummary(ctx, m, summary)
}
