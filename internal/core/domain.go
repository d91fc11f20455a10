package core

import (
	"errors"
	"strings"
	"time"
)

// Member is one of the two fixed household members. The set is closed; it is
// never extended at runtime.
type Member string

const (
	MemberNikkie Member = "Nikkie"
	MemberHein   Member = "Hein"
)

// Members returns both household members in canonical order.
func Members() [2]Member {
	return [2]Member{MemberNikkie, MemberHein}
}

func (m Member) Valid() bool {
	return m == MemberNikkie || m == MemberHein
}

// IncomeType distinguishes salary from other income.
type IncomeType string

const (
	IncomeSalary IncomeType = "salary"
	IncomeOther  IncomeType = "other"
)

func (t IncomeType) Valid() bool {
	return t == IncomeSalary || t == IncomeOther
}

// ExpenseCategory is the closed set of expense categories.
type ExpenseCategory string

const (
	CategoryHousing       ExpenseCategory = "housing"
	CategoryGroceries     ExpenseCategory = "groceries"
	CategoryUtilities     ExpenseCategory = "utilities"
	CategoryInsurance     ExpenseCategory = "insurance"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryHealthcare    ExpenseCategory = "healthcare"
	CategorySubscriptions ExpenseCategory = "subscriptions"
	CategoryClothing      ExpenseCategory = "clothing"
	CategoryChildren      ExpenseCategory = "children"
	CategorySavings       ExpenseCategory = "savings"
	CategoryLeisure       ExpenseCategory = "leisure"
	CategoryOther         ExpenseCategory = "other"
)

// Categories returns all twelve expense categories.
func Categories() []ExpenseCategory {
	return []ExpenseCategory{
		CategoryHousing, CategoryGroceries, CategoryUtilities,
		CategoryInsurance, CategoryTransport, CategoryHealthcare,
		CategorySubscriptions, CategoryClothing, CategoryChildren,
		CategorySavings, CategoryLeisure, CategoryOther,
	}
}

func (c ExpenseCategory) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

var (
	ErrInvalidMonthKey  = errors.New("invalid month key")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidMember    = errors.New("invalid member")
	ErrInvalidType      = errors.New("invalid income type")
	ErrInvalidCategory  = errors.New("invalid expense category")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
)

type (
	// Income is a member's income record for a month.
	Income struct {
		ID          int64
		Member      Member
		Month       MonthKey
		Description string
		Amount      Money
		Type        IncomeType
		CreatedAt   time.Time
	}

	// Tax is a member's tax record for a month.
	Tax struct {
		ID          int64
		Member      Member
		Month       MonthKey
		Description string
		Amount      Money
		CreatedAt   time.Time
	}

	// Expense is a member's expense record for a month. BalanceAccountID is
	// a weak reference: deleting the account nulls it, never the expense.
	Expense struct {
		ID               int64
		Member           Member
		Month            MonthKey
		Description      string
		Amount           Money
		Category         ExpenseCategory
		Shared           bool
		Recurring        bool
		Paid             bool
		IncludeVAT       bool
		Note             string
		BalanceAccountID *int64
		CreatedAt        time.Time
	}

	// DiscretionaryExpense is an "unnecessary" expense outside the regular
	// budget, tracked per member and month.
	DiscretionaryExpense struct {
		ID          int64
		Member      Member
		Month       MonthKey
		Description string
		Amount      Money
		CreatedAt   time.Time
	}

	// BalanceAccount is a debt-like liability paid down on a fixed monthly
	// schedule starting at StartMonth.
	BalanceAccount struct {
		ID               int64
		Name             string
		Description      string
		InitialBalance   Money
		MonthlyDeduction Money
		StartMonth       MonthKey
		CreatedAt        time.Time
	}

	// BalanceSnapshot is a recorded actual-payment balance for an account in
	// a given month. Snapshots are deleted together with their account.
	BalanceSnapshot struct {
		ID        int64
		AccountID int64
		Month     MonthKey
		Balance   Money
		CreatedAt time.Time
	}

	// BudgetEntry is an ad-hoc sub-budget with an allocated amount.
	BudgetEntry struct {
		ID          int64
		Name        string
		Description string
		Amount      Money
		CreatedAt   time.Time
	}

	// BudgetExpense is a spend recorded against a sub-budget. Deleting the
	// budget cascades to its expenses.
	BudgetExpense struct {
		ID          int64
		BudgetID    int64
		Description string
		Amount      Money
		CreatedAt   time.Time
	}

	// FinancialStatement records metadata for an uploaded document; the
	// bytes live in the blob store under Key.
	FinancialStatement struct {
		ID         int64
		Month      MonthKey
		Filename   string
		Key        string
		Size       int64
		MIMEType   string
		UploadedBy Member
		Note       string
		CreatedAt  time.Time
	}
)

// DisplayAmount returns the amount shown for the expense: the stored amount
// plus the VAT surcharge when the expense is flagged. Aggregates use the
// same value so totals and line items always agree.
func (e Expense) DisplayAmount() Money {
	if e.IncludeVAT {
		return e.Amount.WithVAT()
	}
	return e.Amount
}

func validateDescription(s string) error {
	if len(strings.TrimSpace(s)) == 0 {
		return ErrEmptyDescription
	}
	if len(s) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (i Income) Validate() error {
	if !i.Member.Valid() {
		return ErrInvalidMember
	}
	if err := i.Month.Validate(); err != nil {
		return err
	}
	if err := validateDescription(i.Description); err != nil {
		return err
	}
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if !i.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (t Tax) Validate() error {
	if !t.Member.Valid() {
		return ErrInvalidMember
	}
	if err := t.Month.Validate(); err != nil {
		return err
	}
	if err := validateDescription(t.Description); err != nil {
		return err
	}
	return t.Amount.Validate()
}

func (e Expense) Validate() error {
	if !e.Member.Valid() {
		return ErrInvalidMember
	}
	if err := e.Month.Validate(); err != nil {
		return err
	}
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

func (d DiscretionaryExpense) Validate() error {
	if !d.Member.Valid() {
		return ErrInvalidMember
	}
	if err := d.Month.Validate(); err != nil {
		return err
	}
	if err := validateDescription(d.Description); err != nil {
		return err
	}
	return d.Amount.Validate()
}

func (a BalanceAccount) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if err := a.InitialBalance.Validate(); err != nil {
		return err
	}
	if err := a.MonthlyDeduction.Validate(); err != nil {
		return err
	}
	return a.StartMonth.Validate()
}

func (b BudgetEntry) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	return b.Amount.Validate()
}

func (b BudgetExpense) Validate() error {
	if err := validateDescription(b.Description); err != nil {
		return err
	}
	return b.Amount.Validate()
}

func (s FinancialStatement) Validate() error {
	if len(strings.TrimSpace(s.Filename)) == 0 {
		return ErrEmptyName
	}
	if err := s.Month.Validate(); err != nil {
		return err
	}
	if !s.UploadedBy.Valid() {
		return ErrInvalidMember
	}
	if s.Size < 0 {
		return errors.New("negative statement size")
	}
	return nil
}
