package http

import (
	"net/http"
	"strings"

	"budget/internal/core"
)

const defaultCurrency = "IDR"

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	year, err := requiredInt(query, "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	month, err := requiredInt(query, "month")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := core.ValidateSummaryPeriod(year, month); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.store.MonthlySummary(r.Context(), year, month)
	if err != nil {
		writeStoreError(r.Context(), w, err, "monthly_summary")
		return
	}

	// Currency is a pass-through label, not a conversion.
	summary.Currency = defaultCurrency
	if v := strings.TrimSpace(query.Get("currency")); v != "" {
		summary.Currency = v
	}

	writeJSON(w, http.StatusOK, summary)
}
