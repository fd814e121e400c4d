package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"budget/internal/core"
	"budget/internal/events"
)

// createExpenseRequest is the POST /expenses body. expense_date is
// optional and defaults to the current UTC date.
type createExpenseRequest struct {
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ExpenseDate string  `json:"expense_date"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	input := core.NewExpense{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}

	if v := strings.TrimSpace(req.ExpenseDate); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "expense_date must be a valid YYYY-MM-DD date")
			return
		}
		input.Date = d
	} else {
		input.Date = core.Today()
	}

	input.Normalize()
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.CreateExpense(r.Context(), input)
	if err != nil {
		writeStoreError(r.Context(), w, err, "create_expense")
		return
	}

	s.publish(r.Context(), events.NewExpenseCreated(
		created.ID, created.Amount, created.Category, created.Date.String()))

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses, err := s.store.ListExpenses(r.Context(), filter)
	if err != nil {
		writeStoreError(r.Context(), w, err, "list_expenses")
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		writeStoreError(r.Context(), w, err, "get_expense")
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseExpenseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		writeStoreError(r.Context(), w, err, "delete_expense")
		return
	}

	s.publish(r.Context(), events.NewExpenseDeleted(id))

	writeJSON(w, http.StatusOK, deleteResponse{Status: "deleted", DeletedID: id})
}

// publish is best-effort: a broker failure is logged but never fails the
// request that triggered it.
func (s *Server) publish(ctx context.Context, ev *events.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.WarnContext(ctx, "Failed to publish expense event",
			"type", ev.Type, "id", ev.ID, "error", err)
	}
}
