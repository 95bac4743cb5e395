// Package http exposes the JSON API over the services layer.
package http

import (
	"net/http"
	"time"

	"github.com/goya962/FinanceFlow/internal/advice"
	"github.com/goya962/FinanceFlow/internal/export"
	"github.com/goya962/FinanceFlow/internal/export/gsheet"
	"github.com/goya962/FinanceFlow/internal/services"
)

type Server struct {
	http.Server

	expenses *services.ExpenseManager
	incomes  *services.IncomeService
	ledger   *services.Ledger
	reports  *services.Reports
	exporter *export.Service
	advisor  *advice.Advisor
	sheets   *gsheet.Client

	rateLimiter  *rateLimiter
	summaryCache *summaryCache
}

// Deps bundles the collaborators the server needs. Advisor and Sheets
// are optional; their endpoints answer 503 when absent.
type Deps struct {
	Expenses *services.ExpenseManager
	Incomes  *services.IncomeService
	Ledger   *services.Ledger
	Reports  *services.Reports
	Exporter *export.Service
	Advisor  *advice.Advisor
	Sheets   *gsheet.Client
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expenses:     deps.Expenses,
		incomes:      deps.Incomes,
		ledger:       deps.Ledger,
		reports:      deps.Reports,
		exporter:     deps.Exporter,
		advisor:      deps.Advisor,
		sheets:       deps.Sheets,
		rateLimiter:  newRateLimiter(),
		summaryCache: newSummaryCache(100, 5*time.Minute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/incomes", s.withMiddleware(s.handleListIncomes))
	mux.HandleFunc("POST /api/incomes", s.withMiddleware(s.handleCreateIncome))
	mux.HandleFunc("PUT /api/incomes/{id}", s.withMiddleware(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /api/incomes/{id}", s.withMiddleware(s.handleDeleteIncome))

	mux.HandleFunc("GET /api/summary", s.withMiddleware(s.handleMonthlySummary))
	mux.HandleFunc("GET /api/summary/yearly", s.withMiddleware(s.handleYearlySeries))
	mux.HandleFunc("POST /api/summary/export-sheet", s.withMiddleware(s.handleExportSheet))

	mux.HandleFunc("GET /api/banks", s.withMiddleware(s.handleListBanks))
	mux.HandleFunc("POST /api/banks", s.withMiddleware(s.handleCreateBank))
	mux.HandleFunc("PUT /api/banks/{id}", s.withMiddleware(s.handleUpdateBank))
	mux.HandleFunc("DELETE /api/banks/{id}", s.withMiddleware(s.handleDeleteBank))
	mux.HandleFunc("POST /api/banks/{id}/accounts", s.withMiddleware(s.handleCreateAccount))
	mux.HandleFunc("PUT /api/banks/{id}/accounts/{accountID}", s.withMiddleware(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /api/banks/{id}/accounts/{accountID}", s.withMiddleware(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/cards", s.withMiddleware(s.handleListCards))
	mux.HandleFunc("POST /api/cards", s.withMiddleware(s.handleCreateCard))
	mux.HandleFunc("PUT /api/cards/{id}", s.withMiddleware(s.handleUpdateCard))
	mux.HandleFunc("DELETE /api/cards/{id}", s.withMiddleware(s.handleDeleteCard))

	mux.HandleFunc("GET /api/wallets", s.withMiddleware(s.handleListWallets))
	mux.HandleFunc("POST /api/wallets", s.withMiddleware(s.handleCreateWallet))
	mux.HandleFunc("PUT /api/wallets/{id}", s.withMiddleware(s.handleUpdateWallet))
	mux.HandleFunc("DELETE /api/wallets/{id}", s.withMiddleware(s.handleDeleteWallet))

	mux.HandleFunc("GET /api/savings-goal", s.withMiddleware(s.handleGetSavingsGoal))
	mux.HandleFunc("PUT /api/savings-goal", s.withMiddleware(s.handleSetSavingsGoal))

	mux.HandleFunc("GET /api/export", s.withMiddleware(s.handleExportJSON))
	mux.HandleFunc("GET /api/export/csv", s.withMiddleware(s.handleExportCSV))
	mux.HandleFunc("POST /api/import", s.withMiddleware(s.handleImport))
	mux.HandleFunc("POST /api/reset", s.withMiddleware(s.handleReset))

	mux.HandleFunc("POST /api/advice", s.withMiddleware(s.handleAdvice))

	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
