package http

import (
	"net/http"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/services"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in services.ExpenseInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	records, err := s.expenses.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusCreated, records)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e core.Expense
	if err := decodeJSON(r, &e); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	e.ID = r.PathValue("id")

	records, err := s.expenses.Update(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
