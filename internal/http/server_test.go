package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"huishoudboekje/internal/blob"
	"huishoudboekje/internal/core"
	"huishoudboekje/internal/ledger/memory"
	"huishoudboekje/internal/services"
)

// The memory store stands in for the SQLite repository in every handler test.
var _ Store = (*memory.Store)(nil)

type testStatementStore struct {
	rows   map[int64]core.FinancialStatement
	nextID int64
}

func (f *testStatementStore) InsertStatement(_ context.Context, s core.FinancialStatement) (int64, error) {
	s.ID = f.nextID
	f.rows[s.ID] = s
	f.nextID++
	return s.ID, nil
}

func (f *testStatementStore) GetStatement(_ context.Context, id int64) (core.FinancialStatement, error) {
	s, ok := f.rows[id]
	if !ok {
		return core.FinancialStatement{}, errors.New("not found")
	}
	return s, nil
}

func (f *testStatementStore) DeleteStatement(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return errors.New("not found")
	}
	delete(f.rows, id)
	return nil
}

func (f *testStatementStore) StatementsByMonth(_ context.Context, m core.MonthKey) ([]core.FinancialStatement, error) {
	var out []core.FinancialStatement
	for _, s := range f.rows {
		if s.Month == m {
			out = append(out, s)
		}
	}
	return out, nil
}

type testEnv struct {
	server *Server
	store  *memory.Store
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	orchestrator := services.NewCarryOverOrchestrator(store, nil)
	blobs, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	statements := services.NewStatementService(
		&testStatementStore{rows: make(map[int64]core.FinancialStatement), nextID: 1}, blobs)

	s := NewServer(":0", store, orchestrator, statements, 5*time.Minute)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return &testEnv{server: s, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.server.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodGet, "/months/2025-03", nil)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("missing Content-Security-Policy")
	}
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := env.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestRateLimitAppliesToWrites(t *testing.T) {
	env := newTestServer(t)

	body := map[string]any{
		"month": "2025-03", "member": "Nikkie",
		"description": "Salaris", "amount": "2500,00", "type": "salary",
	}
	var limited bool
	for i := 0; i < 70; i++ {
		rec := env.do(t, http.MethodPost, "/incomes", body)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if got := rec.Header().Get("Retry-After"); got != "60" {
				t.Errorf("Retry-After = %q", got)
			}
			break
		}
	}
	if !limited {
		t.Error("expected rate limiting to kick in after 60 writes")
	}
}

func TestRateLimitSkipsReads(t *testing.T) {
	env := newTestServer(t)

	for i := 0; i < 70; i++ {
		rec := env.do(t, http.MethodGet, "/months/2025-03", nil)
		if rec.Code == http.StatusTooManyRequests {
			t.Fatalf("read %d was rate limited", i)
		}
	}
}

func TestCreateIncomeRoundTrip(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/incomes", map[string]any{
		"month": "2025-03", "member": "Hein",
		"description": "Salaris maart", "amount": "3100,50", "type": "salary",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got incomeJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID == 0 || got.Amount.Cents != 310050 || got.Member != "Hein" {
		t.Fatalf("unexpected payload: %+v", got)
	}

	rows, err := env.store.IncomesByMonth(context.Background(), core.MonthKey{Year: 2025, Month: 3})
	if err != nil {
		t.Fatalf("IncomesByMonth: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(rows))
	}
}

func TestCreateIncomeRejectsInvalidMember(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/incomes", map[string]any{
		"month": "2025-03", "member": "someone-else",
		"description": "Salaris", "amount": "100,00", "type": "salary",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestCreateExpenseRejectsBadMonth(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/expenses", map[string]any{
		"month": "march-2025", "member": "Nikkie",
		"description": "Huur", "amount": "1200,00", "category": "housing",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestGetMonthAutoCarries(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()
	feb := core.MonthKey{Year: 2025, Month: 2}

	if _, err := env.store.InsertIncome(ctx, core.Income{
		Month: feb, Member: core.MemberNikkie,
		Description: "Salaris", Amount: core.Money{Cents: 250000}, Type: core.IncomeSalary,
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}
	if _, err := env.store.InsertExpense(ctx, core.Expense{
		Month: feb, Member: core.MemberHein,
		Description: "Huur", Amount: core.Money{Cents: 120000},
		Category: core.CategoryHousing, Recurring: true,
	}); err != nil {
		t.Fatalf("seed expense: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/months/2025-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got monthJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Carried {
		t.Error("expected carried flag")
	}
	if len(got.Incomes) != 1 || len(got.Expenses) != 1 {
		t.Fatalf("incomes = %d, expenses = %d; want 1 and 1", len(got.Incomes), len(got.Expenses))
	}
	if got.Incomes[0].Month != "2025-03" {
		t.Errorf("carried income month = %q", got.Incomes[0].Month)
	}
}

func TestGetMonthCachesPayload(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()
	march := core.MonthKey{Year: 2025, Month: 3}

	if _, err := env.store.InsertIncome(ctx, core.Income{
		Month: march, Member: core.MemberNikkie,
		Description: "Salaris", Amount: core.Money{Cents: 250000}, Type: core.IncomeSalary,
	}); err != nil {
		t.Fatalf("seed income: %v", err)
	}

	if rec := env.do(t, http.MethodGet, "/months/2025-03", nil); rec.Code != http.StatusOK {
		t.Fatalf("first read status = %d", rec.Code)
	}

	// Bypass the handler and mutate the store; the cached payload must
	// still be served until a write invalidates it.
	if _, err := env.store.InsertIncome(ctx, core.Income{
		Month: march, Member: core.MemberHein,
		Description: "Bonus", Amount: core.Money{Cents: 50000}, Type: core.IncomeOther,
	}); err != nil {
		t.Fatalf("second income: %v", err)
	}

	rec := env.do(t, http.MethodGet, "/months/2025-03", nil)
	var cached monthJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &cached); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(cached.Incomes) != 1 {
		t.Fatalf("cached incomes = %d, want 1", len(cached.Incomes))
	}

	// A write through the API invalidates the month.
	if rec := env.do(t, http.MethodPost, "/incomes", map[string]any{
		"month": "2025-03", "member": "Nikkie",
		"description": "Extra", "amount": "10,00", "type": "other",
	}); rec.Code != http.StatusCreated {
		t.Fatalf("write status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/months/2025-03", nil)
	var fresh monthJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &fresh); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fresh.Incomes) != 3 {
		t.Fatalf("fresh incomes = %d, want 3", len(fresh.Incomes))
	}
}

func TestManualCarrySelectedIDs(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()
	feb := core.MonthKey{Year: 2025, Month: 2}

	rentID, err := env.store.InsertExpense(ctx, core.Expense{
		Month: feb, Member: core.MemberNikkie,
		Description: "Huur", Amount: core.Money{Cents: 120000},
		Category: core.CategoryHousing, Recurring: true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := env.store.InsertExpense(ctx, core.Expense{
		Month: feb, Member: core.MemberNikkie,
		Description: "Cadeau", Amount: core.Money{Cents: 3000},
		Category: core.CategoryOther,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/months/2025-03/carry", map[string]any{
		"from":        "2025-02",
		"expense_ids": []int64{rentID},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rows, err := env.store.ExpensesByMonth(ctx, core.MonthKey{Year: 2025, Month: 3})
	if err != nil {
		t.Fatalf("ExpensesByMonth: %v", err)
	}
	if len(rows) != 1 || rows[0].Description != "Huur" {
		t.Fatalf("carried rows = %+v", rows)
	}
}

func TestManualCarryRejectsUnknownIDs(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/months/2025-03/carry", map[string]any{
		"from":        "2025-02",
		"expense_ids": []int64{999},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAccountProjectionEndpoint(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()

	accountID, err := env.store.InsertBalanceAccount(ctx, core.BalanceAccount{
		Name:             "Hypotheek",
		InitialBalance:   core.Money{Cents: 1200000},
		MonthlyDeduction: core.Money{Cents: 100000},
		StartMonth:       core.MonthKey{Year: 2025, Month: 1},
	})
	if err != nil {
		t.Fatalf("insert account: %v", err)
	}
	if _, err := env.store.InsertExpense(ctx, core.Expense{
		Month: core.MonthKey{Year: 2025, Month: 1}, Member: core.MemberHein,
		Description: "Hypotheek jan", Amount: core.Money{Cents: 100000},
		Category: core.CategoryHousing, Paid: true, BalanceAccountID: &accountID,
	}); err != nil {
		t.Fatalf("insert expense: %v", err)
	}

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/accounts/%d/projection?month=2025-03", accountID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got projectionJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	// Three scheduled deductions (jan, feb, mar) against one paid.
	if got.Schedule.Cents != 900000 {
		t.Errorf("schedule = %d, want 900000", got.Schedule.Cents)
	}
	if got.Actual.Cents != 1100000 {
		t.Errorf("actual = %d, want 1100000", got.Actual.Cents)
	}
	if got.Drift.Cents != -200000 {
		t.Errorf("drift = %d, want -200000", got.Drift.Cents)
	}
}

func TestBudgetSpentTotals(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/budgets", map[string]any{
		"name": "Verbouwing", "amount": "5000,00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget status = %d", rec.Code)
	}
	var created budgetJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/budgets/%d/expenses", created.ID), map[string]any{
		"description": "Verf", "amount": "150,00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget expense status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/budgets", nil)
	var budgets []budgetJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &budgets); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("budgets = %d, want 1", len(budgets))
	}
	if budgets[0].Spent.Cents != 15000 || budgets[0].Remaining.Cents != 485000 {
		t.Fatalf("spent = %d remaining = %d", budgets[0].Spent.Cents, budgets[0].Remaining.Cents)
	}
}

func TestUploadStatementMultipart(t *testing.T) {
	env := newTestServer(t)

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "bank-maart.pdf", "application/pdf", "%PDF", map[string]string{
		"uploaded_by": "Nikkie",
		"note":        "maart afschrift",
	})

	req := httptest.NewRequest(http.MethodPost, "/months/2025-03/statements", &buf)
	req.Header.Set("Content-Type", mw)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	env.server.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got statementJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Filename != "bank-maart.pdf" || got.Month != "2025-03" {
		t.Fatalf("payload = %+v", got)
	}

	// Download round-trips the bytes.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/statements/%d", got.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "%PDF") {
		t.Error("downloaded body does not contain uploaded bytes")
	}
}

func TestUploadStatementRejectsUnsupportedMIME(t *testing.T) {
	env := newTestServer(t)

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "virus.exe", "application/x-msdownload", "MZ..", map[string]string{
		"uploaded_by": "Hein",
	})

	req := httptest.NewRequest(http.MethodPost, "/months/2025-03/statements", &buf)
	req.Header.Set("Content-Type", mw)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	env.server.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestUpdateMovingRowInvalidatesOldMonth(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/incomes", map[string]any{
		"month": "2025-03", "member": "Hein",
		"description": "Salaris maart", "amount": "3100,50", "type": "salary",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var created incomeJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Cache the March payload.
	if rec := env.do(t, http.MethodGet, "/months/2025-03", nil); rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Move the row to April.
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/incomes/%d", created.ID), map[string]any{
		"month": "2025-04", "member": "Hein",
		"description": "Salaris maart", "amount": "3100,50", "type": "salary",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/months/2025-03", nil)
	var march monthJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &march); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(march.Incomes) != 0 {
		t.Fatalf("March still shows %d incomes after the move", len(march.Incomes))
	}
}
