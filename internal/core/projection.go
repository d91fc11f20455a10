package core

// Balance projection. Two valuation models coexist on purpose: the schedule
// model answers "what should the balance be if every deduction landed on
// time", the actual model answers "what is the balance given what was really
// paid". Users skip, delay and over-pay, so the two are allowed to diverge
// permanently; the reconciliation view only reports the drift.

// ScheduleBalance returns the account balance assuming on-time fixed
// deductions. The start month itself counts as one deduction. Months before
// the start month return the initial balance untouched; the balance floors
// at zero.
func ScheduleBalance(a BalanceAccount, m MonthKey) Money {
	elapsed := MonthsElapsed(a.StartMonth, m)
	if elapsed < 0 {
		return a.InitialBalance
	}
	deducted := a.MonthlyDeduction.Cents * int64(elapsed+1)
	remaining := a.InitialBalance.Cents - deducted
	if remaining < 0 {
		remaining = 0
	}
	return Money{Cents: remaining}
}

// MonthsRemaining returns how many monthly deductions are still needed to
// clear the scheduled balance at m, rounded up. ok is false when the
// deduction is zero and the balance would never clear.
func MonthsRemaining(a BalanceAccount, m MonthKey) (months int, ok bool) {
	if a.MonthlyDeduction.Cents <= 0 {
		return 0, false
	}
	balance := ScheduleBalance(a, m)
	d := a.MonthlyDeduction.Cents
	return int((balance.Cents + d - 1) / d), true
}

// ActualBalance returns the balance derived from recorded payments: the sum
// of paid expenses linked to the account with a month at or before m,
// subtracted from the initial balance and floored at zero.
func ActualBalance(a BalanceAccount, m MonthKey, expenses []Expense) Money {
	var paid int64
	for _, e := range expenses {
		if e.BalanceAccountID == nil || *e.BalanceAccountID != a.ID {
			continue
		}
		if !e.Paid || e.Month.After(m) {
			continue
		}
		paid += e.Amount.Cents
	}
	remaining := a.InitialBalance.Cents - paid
	if remaining < 0 {
		remaining = 0
	}
	return Money{Cents: remaining}
}

// Progress returns how far the balance has moved from the initial amount as
// a percentage. Zero-initial accounts report 0 rather than dividing by zero.
func Progress(a BalanceAccount, balance Money) float64 {
	if a.InitialBalance.Cents == 0 {
		return 0
	}
	paid := a.InitialBalance.Cents - balance.Cents
	return float64(paid) / float64(a.InitialBalance.Cents) * 100
}

// AccountProjection is the reconciliation view for one account at one month.
// Drift is schedule minus actual: positive means actual payments lag the
// schedule, negative means they are ahead of it.
type AccountProjection struct {
	Account          BalanceAccount
	Month            MonthKey
	Schedule         Money
	Actual           Money
	Drift            Money
	ScheduleProgress float64
	ActualProgress   float64
	MonthsRemaining  int
	NeverClears      bool
	EstimatedPayoff  MonthKey
}

// Project computes both balance models for the account at m, from the full
// expense set, and derives the drift, progress and payoff estimate.
func Project(a BalanceAccount, m MonthKey, expenses []Expense) AccountProjection {
	schedule := ScheduleBalance(a, m)
	actual := ActualBalance(a, m, expenses)
	p := AccountProjection{
		Account:          a,
		Month:            m,
		Schedule:         schedule,
		Actual:           actual,
		Drift:            schedule.Sub(actual),
		ScheduleProgress: Progress(a, schedule),
		ActualProgress:   Progress(a, actual),
	}
	remaining, ok := MonthsRemaining(a, m)
	p.MonthsRemaining = remaining
	p.NeverClears = !ok
	if ok {
		payoff := m
		for i := 0; i < remaining; i++ {
			payoff = payoff.Next()
		}
		p.EstimatedPayoff = payoff
	}
	return p
}
