package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/export"
	"github.com/goya962/FinanceFlow/internal/services"
	"github.com/goya962/FinanceFlow/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := memory.New()
	return NewServer(":0", Deps{
		Expenses: services.NewExpenseManager(st, nil),
		Incomes:  services.NewIncomeService(st),
		Ledger:   services.NewLedger(st, st),
		Reports:  services.NewReports(st, st),
		Exporter: export.NewService(st),
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestExpenseLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"description":  "Laptop",
		"amount":       300.00,
		"date":         "2024-01-15",
		"method":       "credit",
		"source":       map[string]string{"type": "card", "id": "card-1"},
		"installments": 3,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[[]core.Expense](t, rec)
	if len(created) != 3 {
		t.Fatalf("got %d records, want 3", len(created))
	}
	if created[1].Date.String() != "2024-02-15" {
		t.Errorf("second installment date = %s", created[1].Date)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/expenses", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	listed := decodeBody[[]core.Expense](t, rec)
	if len(listed) != 3 {
		t.Fatalf("listed %d records, want 3", len(listed))
	}

	// Editing one member rebuilds the whole group.
	edited := created[0]
	edited.Description = "Laptop Pro"
	edited.Amount = core.Money{Cents: 60000}
	rec = doJSON(t, srv, http.MethodPut, "/api/expenses/"+created[0].ID, edited)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[[]core.Expense](t, rec)
	if len(updated) != 3 {
		t.Fatalf("update produced %d records, want 3", len(updated))
	}
	if updated[0].Amount.Cents != 20000 {
		t.Errorf("updated amount = %d, want 20000", updated[0].Amount.Cents)
	}

	// Deleting one member removes the group.
	rec = doJSON(t, srv, http.MethodDelete, "/api/expenses/"+updated[2].ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/expenses", nil)
	if remaining := decodeBody[[]core.Expense](t, rec); len(remaining) != 0 {
		t.Fatalf("%d records remain after group delete", len(remaining))
	}
}

func TestExpenseValidationStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"description": "",
		"amount":      10.00,
		"date":        "2024-01-15",
		"method":      "debit",
		"source":      map[string]string{"type": "bank", "id": "b1"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty description = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateMissingExpenseIs404(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/expenses/ghost", map[string]any{
		"description": "Nothing",
		"amount":      10.00,
		"date":        "2024-01-15",
		"method":      "debit",
		"source":      map[string]string{"type": "bank", "id": "b1"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update missing = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteMissingExpenseIsNoOp(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/api/expenses/ghost", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete missing = %d, want 204", rec.Code)
	}
}

func TestIncomeAndSummary(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/incomes", map[string]any{
		"description": "Salary",
		"amount":      1000.00,
		"date":        "2024-01-05",
		"source":      map[string]string{"type": "bank", "id": "b1"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"description": "Rent",
		"amount":      400.00,
		"date":        "2024-01-02",
		"method":      "transfer",
		"source":      map[string]string{"type": "bank", "id": "b1"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/summary?year=2024&month=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary = %d: %s", rec.Code, rec.Body.String())
	}
	summary := decodeBody[core.MonthlySummary](t, rec)
	if summary.CarryOver.Cents != 60000 {
		t.Errorf("carry over = %d, want 60000", summary.CarryOver.Cents)
	}
	if summary.Balance.Cents != 60000 {
		t.Errorf("balance = %d, want 60000", summary.Balance.Cents)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/summary/yearly?year=2024", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("yearly = %d", rec.Code)
	}
	series := decodeBody[[]core.MonthPoint](t, rec)
	if len(series) != 12 {
		t.Fatalf("got %d points, want 12", len(series))
	}
	if series[0].Income.Cents != 100000 || series[0].Expense.Cents != 40000 {
		t.Errorf("january point = %+v", series[0])
	}
}

func TestSummaryCacheInvalidatedByWrites(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/summary?year=2024&month=1", nil)
	before := decodeBody[core.MonthlySummary](t, rec)
	if before.TotalExpenses.Cents != 0 {
		t.Fatalf("fresh store should have zero expenses")
	}

	doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"description": "Rent",
		"amount":      400.00,
		"date":        "2024-01-02",
		"method":      "transfer",
		"source":      map[string]string{"type": "bank", "id": "b1"},
	})

	rec = doJSON(t, srv, http.MethodGet, "/api/summary?year=2024&month=1", nil)
	after := decodeBody[core.MonthlySummary](t, rec)
	if after.TotalExpenses.Cents != 40000 {
		t.Fatalf("cached summary served stale data: %d", after.TotalExpenses.Cents)
	}
}

func TestBankAndAccountEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/banks", map[string]string{"name": "First National"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bank = %d: %s", rec.Code, rec.Body.String())
	}
	bank := decodeBody[core.Bank](t, rec)

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/banks/%s/accounts", bank.ID), map[string]any{
		"name":    "Checking",
		"cbu":     "0001112223334445556667",
		"alias":   "main.checking",
		"balance": 2500.00,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account = %d: %s", rec.Code, rec.Body.String())
	}
	account := decodeBody[core.Account](t, rec)
	if account.Balance.Cents != 250000 {
		t.Errorf("balance = %d, want 250000", account.Balance.Cents)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/banks", nil)
	banks := decodeBody[[]core.Bank](t, rec)
	if len(banks) != 1 || len(banks[0].Accounts) != 1 {
		t.Fatalf("got %d banks with accounts %+v", len(banks), banks)
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/banks/%s/accounts/%s", bank.ID, account.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete account = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/banks/no-such-bank/accounts", map[string]any{"name": "x", "balance": 1.00})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("account on missing bank = %d, want 404", rec.Code)
	}
}

func TestSavingsGoalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/savings-goal", nil)
	goal := decodeBody[map[string]int](t, rec)
	if goal["goal"] != 10 {
		t.Fatalf("default goal = %d, want 10", goal["goal"])
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/savings-goal", map[string]int{"goal": 150})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("out-of-range goal = %d, want 422", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/savings-goal", map[string]int{"goal": 25})
	if rec.Code != http.StatusOK {
		t.Fatalf("set goal = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/savings-goal", nil)
	goal = decodeBody[map[string]int](t, rec)
	if goal["goal"] != 25 {
		t.Fatalf("goal = %d, want 25", goal["goal"])
	}
}

func TestExportImportReset(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/expenses", map[string]any{
		"description": "Rent",
		"amount":      400.00,
		"date":        "2024-01-02",
		"method":      "transfer",
		"source":      map[string]string{"type": "bank", "id": "b1"},
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d", rec.Code)
	}
	exported := rec.Body.Bytes()

	rec = doJSON(t, srv, http.MethodPost, "/api/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/expenses", nil)
	if left := decodeBody[[]core.Expense](t, rec); len(left) != 0 {
		t.Fatalf("%d expenses after reset", len(left))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(exported))
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("import = %d: %s", rr.Code, rr.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/expenses", nil)
	if back := decodeBody[[]core.Expense](t, rec); len(back) != 1 {
		t.Fatalf("%d expenses after import, want 1", len(back))
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/export/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv export = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("csv content type = %q", ct)
	}
}

func TestOptionalIntegrationsAnswer503(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/summary/export-sheet", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("sheet export without client = %d, want 503", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/advice", map[string]string{
		"startDate": "2024-01-01", "endDate": "2024-01-31",
	})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("advice without key = %d, want 503", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/expenses", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
