package http

import (
	"log/slog"
	"net/http"

	"github.com/goya962/FinanceFlow/internal/core"
)

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="financeflow_data.json"`)
	if err := s.exporter.WriteJSON(r.Context(), w); err != nil {
		slog.ErrorContext(r.Context(), "export failed", "error", err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="financeflow_summary.csv"`)
	if err := s.exporter.WriteCSV(r.Context(), w); err != nil {
		slog.ErrorContext(r.Context(), "csv export failed", "error", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	if err := s.exporter.Import(r.Context(), http.MaxBytesReader(w, r.Body, 10<<20)); err != nil {
		badRequest(w, "invalid snapshot file")
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.exporter.Reset(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Purge()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil || !s.advisor.Enabled() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "advice is not configured"})
		return
	}

	var in struct {
		StartDate core.Date `json:"startDate"`
		EndDate   core.Date `json:"endDate"`
	}
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if in.EndDate.Before(in.StartDate.Time) {
		badRequest(w, "endDate precedes startDate")
		return
	}

	incomes, err := s.incomes.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.expenses.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := s.advisor.Advise(r.Context(), in.StartDate, in.EndDate, incomes, expenses)
	if err != nil {
		slog.ErrorContext(r.Context(), "advice request failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "advice service failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"advice": answer})
}
