package http

import (
	"time"

	"huishoudboekje/internal/core"
	"huishoudboekje/internal/ledger"
)

// JSON shapes for the API. Amounts travel as cents plus a formatted euro
// string; months as "YYYY-MM".

type moneyJSON struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func money(m core.Money) moneyJSON {
	return moneyJSON{Cents: m.Cents, Formatted: formatEuros(m.Cents)}
}

type incomeJSON struct {
	ID          int64     `json:"id"`
	Month       string    `json:"month"`
	Member      string    `json:"member"`
	Description string    `json:"description"`
	Amount      moneyJSON `json:"amount"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

func incomeToJSON(in core.Income) incomeJSON {
	return incomeJSON{
		ID:          in.ID,
		Month:       in.Month.String(),
		Member:      string(in.Member),
		Description: in.Description,
		Amount:      money(in.Amount),
		Type:        string(in.Type),
		CreatedAt:   in.CreatedAt,
	}
}

type taxJSON struct {
	ID          int64     `json:"id"`
	Month       string    `json:"month"`
	Member      string    `json:"member"`
	Description string    `json:"description"`
	Amount      moneyJSON `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func taxToJSON(t core.Tax) taxJSON {
	return taxJSON{
		ID:          t.ID,
		Month:       t.Month.String(),
		Member:      string(t.Member),
		Description: t.Description,
		Amount:      money(t.Amount),
		CreatedAt:   t.CreatedAt,
	}
}

type expenseJSON struct {
	ID               int64     `json:"id"`
	Month            string    `json:"month"`
	Member           string    `json:"member"`
	Description      string    `json:"description"`
	Amount           moneyJSON `json:"amount"`
	DisplayAmount    moneyJSON `json:"display_amount"`
	Category         string    `json:"category"`
	Shared           bool      `json:"shared"`
	Recurring        bool      `json:"recurring"`
	Paid             bool      `json:"paid"`
	IncludeVAT       bool      `json:"include_vat"`
	Note             string    `json:"note,omitempty"`
	BalanceAccountID *int64    `json:"balance_account_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func expenseToJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:               e.ID,
		Month:            e.Month.String(),
		Member:           string(e.Member),
		Description:      e.Description,
		Amount:           money(e.Amount),
		DisplayAmount:    money(e.DisplayAmount()),
		Category:         string(e.Category),
		Shared:           e.Shared,
		Recurring:        e.Recurring,
		Paid:             e.Paid,
		IncludeVAT:       e.IncludeVAT,
		Note:             e.Note,
		BalanceAccountID: e.BalanceAccountID,
		CreatedAt:        e.CreatedAt,
	}
}

type discretionaryJSON struct {
	ID          int64     `json:"id"`
	Month       string    `json:"month"`
	Member      string    `json:"member"`
	Description string    `json:"description"`
	Amount      moneyJSON `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func discretionaryToJSON(d core.DiscretionaryExpense) discretionaryJSON {
	return discretionaryJSON{
		ID:          d.ID,
		Month:       d.Month.String(),
		Member:      string(d.Member),
		Description: d.Description,
		Amount:      money(d.Amount),
		CreatedAt:   d.CreatedAt,
	}
}

type memberSummaryJSON struct {
	Member             string    `json:"member"`
	GrossIncome        moneyJSON `json:"gross_income"`
	OtherIncome        moneyJSON `json:"other_income"`
	TotalTaxes         moneyJSON `json:"total_taxes"`
	NetIncome          moneyJSON `json:"net_income"`
	TotalExpenses      moneyJSON `json:"total_expenses"`
	TotalDiscretionary moneyJSON `json:"total_discretionary"`
	Remaining          moneyJSON `json:"remaining"`
}

type summaryJSON struct {
	Members            []memberSummaryJSON `json:"members"`
	GrossIncome        moneyJSON           `json:"gross_income"`
	OtherIncome        moneyJSON           `json:"other_income"`
	TotalTaxes         moneyJSON           `json:"total_taxes"`
	NetIncome          moneyJSON           `json:"net_income"`
	TotalExpenses      moneyJSON           `json:"total_expenses"`
	TotalDiscretionary moneyJSON           `json:"total_discretionary"`
	Remaining          moneyJSON           `json:"remaining"`
}

func summaryToJSON(s core.HouseholdSummary) summaryJSON {
	out := summaryJSON{
		GrossIncome:        money(s.GrossIncome),
		OtherIncome:        money(s.OtherIncome),
		TotalTaxes:         money(s.TotalTaxes),
		NetIncome:          money(s.NetIncome),
		TotalExpenses:      money(s.TotalExpenses),
		TotalDiscretionary: money(s.TotalDiscretionary),
		Remaining:          money(s.Remaining),
	}
	for _, m := range s.Members {
		out.Members = append(out.Members, memberSummaryJSON{
			Member:             string(m.Member),
			GrossIncome:        money(m.GrossIncome),
			OtherIncome:        money(m.OtherIncome),
			TotalTaxes:         money(m.TotalTaxes),
			NetIncome:          money(m.NetIncome),
			TotalExpenses:      money(m.TotalExpenses),
			TotalDiscretionary: money(m.TotalDiscretionary),
			Remaining:          money(m.Remaining),
		})
	}
	return out
}

type monthJSON struct {
	Month         string              `json:"month"`
	Carried       bool                `json:"carried"`
	Incomes       []incomeJSON        `json:"incomes"`
	Taxes         []taxJSON           `json:"taxes"`
	Expenses      []expenseJSON       `json:"expenses"`
	Discretionary []discretionaryJSON `json:"discretionary"`
	Summary       summaryJSON         `json:"summary"`
}

func monthToJSON(data ledger.MonthData, carried bool) monthJSON {
	out := monthJSON{
		Month:         data.Month.String(),
		Carried:       carried,
		Incomes:       []incomeJSON{},
		Taxes:         []taxJSON{},
		Expenses:      []expenseJSON{},
		Discretionary: []discretionaryJSON{},
		Summary: summaryToJSON(core.SummarizeHousehold(
			data.Incomes, data.Taxes, data.Expenses, data.Discretionary)),
	}
	for _, in := range data.Incomes {
		out.Incomes = append(out.Incomes, incomeToJSON(in))
	}
	for _, t := range data.Taxes {
		out.Taxes = append(out.Taxes, taxToJSON(t))
	}
	for _, e := range data.Expenses {
		out.Expenses = append(out.Expenses, expenseToJSON(e))
	}
	for _, d := range data.Discretionary {
		out.Discretionary = append(out.Discretionary, discretionaryToJSON(d))
	}
	return out
}

type accountJSON struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	InitialBalance   moneyJSON `json:"initial_balance"`
	MonthlyDeduction moneyJSON `json:"monthly_deduction"`
	StartMonth       string    `json:"start_month"`
	CreatedAt        time.Time `json:"created_at"`
}

func accountToJSON(a core.BalanceAccount) accountJSON {
	return accountJSON{
		ID:               a.ID,
		Name:             a.Name,
		Description:      a.Description,
		InitialBalance:   money(a.InitialBalance),
		MonthlyDeduction: money(a.MonthlyDeduction),
		StartMonth:       a.StartMonth.String(),
		CreatedAt:        a.CreatedAt,
	}
}

type projectionJSON struct {
	Account          accountJSON `json:"account"`
	Month            string      `json:"month"`
	Schedule         moneyJSON   `json:"schedule_balance"`
	Actual           moneyJSON   `json:"actual_balance"`
	Drift            moneyJSON   `json:"drift"`
	ScheduleProgress float64     `json:"schedule_progress"`
	ActualProgress   float64     `json:"actual_progress"`
	MonthsRemaining  int         `json:"months_remaining"`
	NeverClears      bool        `json:"never_clears"`
	EstimatedPayoff  string      `json:"estimated_payoff,omitempty"`
}

func projectionToJSON(p core.AccountProjection) projectionJSON {
	out := projectionJSON{
		Account:          accountToJSON(p.Account),
		Month:            p.Month.String(),
		Schedule:         money(p.Schedule),
		Actual:           money(p.Actual),
		Drift:            money(p.Drift),
		ScheduleProgress: p.ScheduleProgress,
		ActualProgress:   p.ActualProgress,
		MonthsRemaining:  p.MonthsRemaining,
		NeverClears:      p.NeverClears,
	}
	if !p.NeverClears {
		out.EstimatedPayoff = p.EstimatedPayoff.String()
	}
	return out
}

type snapshotJSON struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Month     string    `json:"month"`
	Balance   moneyJSON `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func snapshotToJSON(s core.BalanceSnapshot) snapshotJSON {
	return snapshotJSON{
		ID:        s.ID,
		AccountID: s.AccountID,
		Month:     s.Month.String(),
		Balance:   money(s.Balance),
		CreatedAt: s.CreatedAt,
	}
}

type budgetJSON struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Allocated   moneyJSON `json:"allocated"`
	Spent       moneyJSON `json:"spent"`
	Remaining   moneyJSON `json:"remaining"`
	CreatedAt   time.Time `json:"created_at"`
}

func budgetToJSON(b core.BudgetEntry, spent core.Money) budgetJSON {
	return budgetJSON{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Allocated:   money(b.Amount),
		Spent:       money(spent),
		Remaining:   money(b.Amount.Sub(spent)),
		CreatedAt:   b.CreatedAt,
	}
}

type budgetExpenseJSON struct {
	ID          int64     `json:"id"`
	BudgetID    int64     `json:"budget_id"`
	Description string    `json:"description"`
	Amount      moneyJSON `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func budgetExpenseToJSON(e core.BudgetExpense) budgetExpenseJSON {
	return budgetExpenseJSON{
		ID:          e.ID,
		BudgetID:    e.BudgetID,
		Description: e.Description,
		Amount:      money(e.Amount),
		CreatedAt:   e.CreatedAt,
	}
}

type statementJSON struct {
	ID         int64     `json:"id"`
	Month      string    `json:"month"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	MIMEType   string    `json:"mime_type"`
	UploadedBy string    `json:"uploaded_by"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func statementToJSON(s core.FinancialStatement) statementJSON {
	return statementJSON{
		ID:         s.ID,
		Month:      s.Month.String(),
		Filename:   s.Filename,
		Size:       s.Size,
		MIMEType:   s.MIMEType,
		UploadedBy: string(s.UploadedBy),
		Note:       s.Note,
		CreatedAt:  s.CreatedAt,
	}
}
