package core

import "testing"

func testAccount() BalanceAccount {
	return BalanceAccount{
		ID:               1,
		Name:             "Car loan",
		InitialBalance:   Money{Cents: 1200000}, // 12000.00
		MonthlyDeduction: Money{Cents: 100000},  // 1000.00
		StartMonth:       MonthKey{2025, 1},
	}
}

func paidExpense(account int64, m MonthKey, cents int64) Expense {
	return Expense{
		ID:               99,
		Member:           MemberNikkie,
		Month:            m,
		Description:      "payment",
		Amount:           Money{Cents: cents},
		Category:         CategoryOther,
		Paid:             true,
		BalanceAccountID: &account,
	}
}

func TestScheduleBalanceBeforeStart(t *testing.T) {
	a := testAccount()
	for _, m := range []MonthKey{{2024, 12}, {2024, 1}, {2023, 6}} {
		if got := ScheduleBalance(a, m); got != a.InitialBalance {
			t.Fatalf("ScheduleBalance(%v) = %v, want initial %v", m, got, a.InitialBalance)
		}
	}
}

func TestScheduleBalanceCountsStartMonth(t *testing.T) {
	a := testAccount()
	// The start month itself is one deduction.
	if got := ScheduleBalance(a, MonthKey{2025, 1}).Cents; got != 1100000 {
		t.Fatalf("start month balance = %d, want 1100000", got)
	}
	// 12000 - 1000*3 = 9000.00 at 2025-03.
	if got := ScheduleBalance(a, MonthKey{2025, 3}).Cents; got != 900000 {
		t.Fatalf("2025-03 balance = %d, want 900000", got)
	}
}

func TestScheduleBalanceNonIncreasingAndFloorsAtZero(t *testing.T) {
	a := testAccount()
	prev := a.InitialBalance.Cents
	m := a.StartMonth
	for i := 0; i < 24; i++ {
		got := ScheduleBalance(a, m).Cents
		if got > prev {
			t.Fatalf("balance increased at %v: %d > %d", m, got, prev)
		}
		if got < 0 {
			t.Fatalf("balance went negative at %v: %d", m, got)
		}
		prev = got
		m = m.Next()
	}
	if prev != 0 {
		t.Fatalf("expected balance to floor at 0 after 24 months, got %d", prev)
	}
}

func TestMonthsRemaining(t *testing.T) {
	a := testAccount()
	// 9000 left at 2025-03, 1000 per month: 9 to go.
	months, ok := MonthsRemaining(a, MonthKey{2025, 3})
	if !ok || months != 9 {
		t.Fatalf("got (%d, %v), want (9, true)", months, ok)
	}

	// Ceil: 9000 left with a 2500 deduction needs 4 months.
	a.MonthlyDeduction = Money{Cents: 250000}
	a.InitialBalance = Money{Cents: 1150000}
	// 11500 - 2500*1 = 9000 at start month.
	months, ok = MonthsRemaining(a, a.StartMonth)
	if !ok || months != 4 {
		t.Fatalf("got (%d, %v), want (4, true)", months, ok)
	}

	a.MonthlyDeduction = Money{}
	if _, ok := MonthsRemaining(a, a.StartMonth); ok {
		t.Fatalf("zero deduction must report never clearing")
	}
}

func TestActualBalanceNoExpenses(t *testing.T) {
	a := testAccount()
	if got := ActualBalance(a, MonthKey{2025, 6}, nil); got != a.InitialBalance {
		t.Fatalf("got %v, want initial balance", got)
	}
}

func TestActualBalanceFilters(t *testing.T) {
	a := testAccount()
	other := int64(42)
	unpaid := paidExpense(a.ID, MonthKey{2025, 2}, 30000)
	unpaid.Paid = false
	future := paidExpense(a.ID, MonthKey{2025, 4}, 40000)
	detached := paidExpense(a.ID, MonthKey{2025, 2}, 50000)
	detached.BalanceAccountID = nil
	expenses := []Expense{
		paidExpense(a.ID, MonthKey{2025, 1}, 100000),
		paidExpense(a.ID, MonthKey{2025, 3}, 20000), // boundary month counts
		paidExpense(other, MonthKey{2025, 2}, 99999),
		unpaid,
		future,
		detached,
	}
	got := ActualBalance(a, MonthKey{2025, 3}, expenses)
	if got.Cents != 1200000-100000-20000 {
		t.Fatalf("got %d, want %d", got.Cents, 1200000-100000-20000)
	}
}

// Scenario from the design discussion: schedule 9000.00 at 2025-03, one paid
// expense of 500.00 in 2025-02 gives actual 11500.00; drift is
// schedule - actual = -2500.00 (actual balance higher, payments behind).
func TestProjectDriftSign(t *testing.T) {
	a := testAccount()
	expenses := []Expense{paidExpense(a.ID, MonthKey{2025, 2}, 50000)}
	p := Project(a, MonthKey{2025, 3}, expenses)

	if p.Schedule.Cents != 900000 {
		t.Fatalf("schedule = %d, want 900000", p.Schedule.Cents)
	}
	if p.Actual.Cents != 1150000 {
		t.Fatalf("actual = %d, want 1150000", p.Actual.Cents)
	}
	if p.Drift.Cents != -250000 {
		t.Fatalf("drift = %d, want -250000", p.Drift.Cents)
	}
}

func TestProgress(t *testing.T) {
	a := testAccount()
	if got := Progress(a, Money{Cents: 900000}); got != 25 {
		t.Fatalf("progress = %v, want 25", got)
	}
	if got := Progress(a, a.InitialBalance); got != 0 {
		t.Fatalf("progress = %v, want 0", got)
	}
	zero := BalanceAccount{InitialBalance: Money{}}
	if got := Progress(zero, Money{}); got != 0 {
		t.Fatalf("zero-initial account must report 0, got %v", got)
	}
}

func TestProjectEstimatedPayoff(t *testing.T) {
	a := testAccount()
	p := Project(a, MonthKey{2025, 3}, nil)
	if p.NeverClears {
		t.Fatalf("account with deduction must clear")
	}
	// 9 deductions after 2025-03.
	if p.EstimatedPayoff != (MonthKey{2025, 12}) {
		t.Fatalf("payoff = %v, want 2025-12", p.EstimatedPayoff)
	}

	a.MonthlyDeduction = Money{}
	p = Project(a, MonthKey{2025, 3}, nil)
	if !p.NeverClears {
		t.Fatalf("zero deduction must never clear")
	}
}
