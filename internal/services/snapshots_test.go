package services

import (
	"context"
	"errors"
	"testing"

	"huishoudboekje/internal/core"
	"huishoudboekje/internal/ledger/memory"
)

type fakeSnapshotStore struct {
	accounts    []core.BalanceAccount
	expenses    map[int64][]core.Expense
	snapshots   []core.BalanceSnapshot
	failInserts error
}

func (f *fakeSnapshotStore) ListBalanceAccounts(_ context.Context) ([]core.BalanceAccount, error) {
	return f.accounts, nil
}

func (f *fakeSnapshotStore) ExpensesByAccount(_ context.Context, accountID int64) ([]core.Expense, error) {
	return f.expenses[accountID], nil
}

func (f *fakeSnapshotStore) InsertSnapshot(_ context.Context, s core.BalanceSnapshot) (int64, error) {
	if f.failInserts != nil {
		return 0, f.failInserts
	}
	s.ID = int64(len(f.snapshots) + 1)
	f.snapshots = append(f.snapshots, s)
	return s.ID, nil
}

type fakeSummaryWriter struct {
	months []core.MonthKey
	err    error
}

func (f *fakeSummaryWriter) AppendMonthSummary(_ context.Context, m core.MonthKey, _ core.HouseholdSummary) error {
	if f.err != nil {
		return f.err
	}
	f.months = append(f.months, m)
	return nil
}

func snapshotFixture() *fakeSnapshotStore {
	accountID := int64(1)
	return &fakeSnapshotStore{
		accounts: []core.BalanceAccount{
			{
				ID:               1,
				Name:             "Hypotheek",
				InitialBalance:   core.Money{Cents: 1200000},
				MonthlyDeduction: core.Money{Cents: 100000},
				StartMonth:       core.MonthKey{Year: 2025, Month: 1},
			},
			{
				ID:               2,
				Name:             "Autolening",
				InitialBalance:   core.Money{Cents: 500000},
				MonthlyDeduction: core.Money{Cents: 50000},
				StartMonth:       core.MonthKey{Year: 2025, Month: 1},
			},
		},
		expenses: map[int64][]core.Expense{
			1: {
				{
					ID:               10,
					Month:            core.MonthKey{Year: 2025, Month: 1},
					Member:           core.MemberHein,
					Description:      "Hypotheek januari",
					Amount:           core.Money{Cents: 100000},
					Category:         core.CategoryHousing,
					Paid:             true,
					BalanceAccountID: &accountID,
				},
			},
		},
	}
}

func TestRecordMonthWritesOneSnapshotPerAccount(t *testing.T) {
	store := snapshotFixture()
	svc := NewSnapshotService(store, memory.New(), nil)

	m := core.MonthKey{Year: 2025, Month: 2}
	if err := svc.RecordMonth(context.Background(), m); err != nil {
		t.Fatalf("RecordMonth: %v", err)
	}

	if len(store.snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(store.snapshots))
	}
	// Account 1 has one paid deduction recorded, account 2 none.
	if got := store.snapshots[0].Balance.Cents; got != 1100000 {
		t.Errorf("account 1 balance = %d, want 1100000", got)
	}
	if got := store.snapshots[1].Balance.Cents; got != 500000 {
		t.Errorf("account 2 balance = %d, want 500000", got)
	}
	for _, s := range store.snapshots {
		if s.Month != m {
			t.Errorf("snapshot month = %v, want %v", s.Month, m)
		}
	}
}

func TestRecordMonthAbortsOnInsertFailure(t *testing.T) {
	store := snapshotFixture()
	store.failInserts = errors.New("locked")
	svc := NewSnapshotService(store, memory.New(), nil)

	err := svc.RecordMonth(context.Background(), core.MonthKey{Year: 2025, Month: 2})
	if err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if !errors.Is(err, store.failInserts) {
		t.Fatalf("err = %v, want wrapped cause", err)
	}
}

func TestRecordMonthExportsSummary(t *testing.T) {
	store := snapshotFixture()
	reader := memory.New()
	writer := &fakeSummaryWriter{}
	svc := NewSnapshotService(store, reader, writer)

	m := core.MonthKey{Year: 2025, Month: 2}
	if _, err := reader.InsertIncome(context.Background(), core.Income{
		Month:       m,
		Member:      core.MemberNikkie,
		Description: "Salaris",
		Amount:      core.Money{Cents: 250000},
		Type:        core.IncomeSalary,
	}); err != nil {
		t.Fatalf("InsertIncome: %v", err)
	}

	if err := svc.RecordMonth(context.Background(), m); err != nil {
		t.Fatalf("RecordMonth: %v", err)
	}
	if len(writer.months) != 1 || writer.months[0] != m {
		t.Fatalf("exported months = %v, want [%v]", writer.months, m)
	}
}

func TestRecordMonthToleratesExportFailure(t *testing.T) {
	store := snapshotFixture()
	writer := &fakeSummaryWriter{err: errors.New("quota exceeded")}
	svc := NewSnapshotService(store, memory.New(), writer)

	// The export is best-effort; snapshots must still land and the call
	// must succeed.
	if err := svc.RecordMonth(context.Background(), core.MonthKey{Year: 2025, Month: 2}); err != nil {
		t.Fatalf("RecordMonth: %v", err)
	}
	if len(store.snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(store.snapshots))
	}
}
