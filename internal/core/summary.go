package core

// MemberSummary folds one member's ledger rows for a month into totals.
// Expense totals use DisplayAmount, so VAT-flagged expenses contribute their
// surcharged value to aggregates exactly as they are shown per entry.
type MemberSummary struct {
	Member             Member
	GrossIncome        Money
	OtherIncome        Money
	TotalTaxes         Money
	NetIncome          Money
	TotalExpenses      Money
	TotalDiscretionary Money
	Remaining          Money
}

// HouseholdSummary combines both members' summaries with household totals.
type HouseholdSummary struct {
	Members            [2]MemberSummary
	GrossIncome        Money
	OtherIncome        Money
	TotalTaxes         Money
	NetIncome          Money
	TotalExpenses      Money
	TotalDiscretionary Money
	Remaining          Money
}

// SummarizeMember computes a member's totals from the month's rows. Rows
// belonging to other members are ignored.
func SummarizeMember(member Member, incomes []Income, taxes []Tax, expenses []Expense, discretionary []DiscretionaryExpense) MemberSummary {
	s := MemberSummary{Member: member}
	for _, in := range incomes {
		if in.Member != member {
			continue
		}
		switch in.Type {
		case IncomeSalary:
			s.GrossIncome = s.GrossIncome.Add(in.Amount)
		case IncomeOther:
			s.OtherIncome = s.OtherIncome.Add(in.Amount)
		}
	}
	for _, t := range taxes {
		if t.Member != member {
			continue
		}
		s.TotalTaxes = s.TotalTaxes.Add(t.Amount)
	}
	for _, e := range expenses {
		if e.Member != member {
			continue
		}
		s.TotalExpenses = s.TotalExpenses.Add(e.DisplayAmount())
	}
	for _, d := range discretionary {
		if d.Member != member {
			continue
		}
		s.TotalDiscretionary = s.TotalDiscretionary.Add(d.Amount)
	}
	s.NetIncome = s.GrossIncome.Sub(s.TotalTaxes).Add(s.OtherIncome)
	s.Remaining = s.NetIncome.Sub(s.TotalExpenses).Sub(s.TotalDiscretionary)
	return s
}

// SummarizeHousehold computes both member summaries and their sum. The
// two-member enumeration is exhaustive, so every row lands in exactly one
// member summary.
func SummarizeHousehold(incomes []Income, taxes []Tax, expenses []Expense, discretionary []DiscretionaryExpense) HouseholdSummary {
	var h HouseholdSummary
	for i, member := range Members() {
		s := SummarizeMember(member, incomes, taxes, expenses, discretionary)
		h.Members[i] = s
		h.GrossIncome = h.GrossIncome.Add(s.GrossIncome)
		h.OtherIncome = h.OtherIncome.Add(s.OtherIncome)
		h.TotalTaxes = h.TotalTaxes.Add(s.TotalTaxes)
		h.NetIncome = h.NetIncome.Add(s.NetIncome)
		h.TotalExpenses = h.TotalExpenses.Add(s.TotalExpenses)
		h.TotalDiscretionary = h.TotalDiscretionary.Add(s.TotalDiscretionary)
		h.Remaining = h.Remaining.Add(s.Remaining)
	}
	return h
}

// ExpensesByCategory sums display amounts per category, optionally filtered
// to one member. Iteration order is irrelevant; consumers sort for display.
func ExpensesByCategory(expenses []Expense, member *Member) map[ExpenseCategory]Money {
	out := make(map[ExpenseCategory]Money)
	for _, e := range expenses {
		if member != nil && e.Member != *member {
			continue
		}
		out[e.Category] = out[e.Category].Add(e.DisplayAmount())
	}
	return out
}
