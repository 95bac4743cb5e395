package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goya962/FinanceFlow/internal/core"
)

// periodFromQuery reads year and month query parameters, defaulting to the
// current date when absent.
func periodFromQuery(r *http.Request) (int, int, error) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", v)
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", v)
		}
		month = m
	}
	return year, month, nil
}

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodFromQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	key := fmt.Sprintf("%04d-%02d", year, month)
	if summary, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.reports.Monthly(r.Context(), core.NewDate(year, month, 1))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleYearlySeries(w http.ResponseWriter, r *http.Request) {
	year, _, err := periodFromQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	series, err := s.reports.Yearly(r.Context(), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleExportSheet(w http.ResponseWriter, r *http.Request) {
	if s.sheets == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "sheet export is not configured"})
		return
	}

	year, month, err := periodFromQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	summary, err := s.reports.Monthly(r.Context(), core.NewDate(year, month, 1))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.sheets.AppendMonthlySummary(r.Context(), summary); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
