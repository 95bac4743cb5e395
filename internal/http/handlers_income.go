package http

import (
	"net/http"

	"github.com/goya962/FinanceFlow/internal/core"
	"github.com/goya962/FinanceFlow/internal/services"
)

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := s.incomes.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if incomes == nil {
		incomes = []core.Income{}
	}
	writeJSON(w, http.StatusOK, incomes)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var in services.IncomeInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	income, err := s.incomes.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusCreated, income)
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	var income core.Income
	if err := decodeJSON(r, &income); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	income.ID = r.PathValue("id")

	if err := s.incomes.Update(r.Context(), income); err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, income)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := s.incomes.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
