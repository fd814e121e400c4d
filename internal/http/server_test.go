package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"budget/internal/core"
	"budget/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewServer("127.0.0.1:0", store, "sqlite", Options{})
}

func doRequest(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func createExpense(t *testing.T, s *Server, amount float64, category, date string) core.Expense {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/expenses", map[string]any{
		"amount":       amount,
		"category":     category,
		"expense_date": date,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "budgetd", body.App)
	assert.Equal(t, "sqlite", body.Backend)
	assert.Contains(t, body.Target, "budget.db")
}

func TestCreateExpense(t *testing.T) {
	s := newTestServer(t)

	t.Run("returns the stored record", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/expenses", map[string]any{
			"amount":       50.00,
			"category":     "  Food  ",
			"description":  " lunch ",
			"expense_date": "2024-03-15",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created core.Expense
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Positive(t, created.ID)
		assert.Equal(t, "Food", created.Category)
		assert.Equal(t, "lunch", created.Description)
		assert.Equal(t, "2024-03-15", created.Date.String())
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("defaults expense_date to today", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/expenses", map[string]any{
			"amount":   12.50,
			"category": "Transport",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created core.Expense
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, core.Today().String(), created.Date.String())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]any
		}{
			{"zero amount", map[string]any{"amount": 0, "category": "Food"}},
			{"negative amount", map[string]any{"amount": -5, "category": "Food"}},
			{"blank category", map[string]any{"amount": 10, "category": "   "}},
			{"malformed date", map[string]any{"amount": 10, "category": "Food", "expense_date": "15/03/2024"}},
			{"natural language date", map[string]any{"amount": 10, "category": "Food", "expense_date": "yesterday"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := doRequest(t, s, http.MethodPost, "/expenses", tt.body)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), "detail")
			})
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/expenses", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		s.Handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetExpense(t *testing.T) {
	s := newTestServer(t)
	created := createExpense(t, s, 25.00, "Food", "2024-03-15")

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, fmt.Sprintf("/expenses/%d", created.ID), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got core.Expense
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/expenses/9999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Expense not found")
	})

	t.Run("non-numeric id is 400", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/expenses/abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListExpenses(t *testing.T) {
	s := newTestServer(t)

	createExpense(t, s, 10, "Food", "2024-03-01")
	createExpense(t, s, 20, "Transport", "2024-03-15")
	createExpense(t, s, 30, "Food", "2024-04-01")

	t.Run("newest first", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/expenses", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []core.Expense
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 3)
		assert.Equal(t, "2024-04-01", got[0].Date.String())
		assert.Equal(t, "2024-03-01", got[2].Date.String())
	})

	t.Run("date range and category filters", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet,
			"/expenses?start_date=2024-03-01&end_date=2024-03-31&category=food", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []core.Expense
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "2024-03-01", got[0].Date.String())
	})

	t.Run("empty result is a JSON array", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/expenses?category=Travel", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("invalid paging is rejected", func(t *testing.T) {
		for _, target := range []string{
			"/expenses?limit=0",
			"/expenses?limit=1001",
			"/expenses?offset=-1",
		} {
			rec := doRequest(t, s, http.MethodGet, target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}

func TestDeleteExpense(t *testing.T) {
	s := newTestServer(t)
	created := createExpense(t, s, 25.00, "Food", "2024-03-15")

	rec := doRequest(t, s, http.MethodDelete, fmt.Sprintf("/expenses/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body deleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "deleted", body.Status)
	assert.Equal(t, created.ID, body.DeletedID)

	// The row is gone, and a repeat delete is a 404.
	rec = doRequest(t, s, http.MethodGet, fmt.Sprintf("/expenses/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/expenses/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMonthlySummary(t *testing.T) {
	s := newTestServer(t)

	createExpense(t, s, 50.00, "Food", "2024-03-15")
	createExpense(t, s, 25.25, "Food", "2024-03-31")
	createExpense(t, s, 30.10, "Transport", "2024-03-01")
	createExpense(t, s, 99.99, "Food", "2024-04-01")

	t.Run("sums the requested month only", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/summary/monthly?year=2024&month=3", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary core.MonthlySummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, 2024, summary.Year)
		assert.Equal(t, 3, summary.Month)
		assert.Equal(t, "IDR", summary.Currency)
		assert.InDelta(t, 105.35, summary.GrandTotal, 0.001)

		require.Len(t, summary.ByCategory, 2)
		assert.Equal(t, "Food", summary.ByCategory[0].Category)
		assert.InDelta(t, 75.25, summary.ByCategory[0].Total, 0.001)
	})

	t.Run("currency label is passed through", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/summary/monthly?year=2024&month=3&currency=EUR", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary core.MonthlySummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, "EUR", summary.Currency)
	})

	t.Run("empty month", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/summary/monthly?year=2024&month=7", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary core.MonthlySummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Zero(t, summary.GrandTotal)
		assert.Empty(t, summary.ByCategory)
		assert.Contains(t, rec.Body.String(), `"by_category":[]`)
	})

	t.Run("invalid period parameters", func(t *testing.T) {
		for _, target := range []string{
			"/summary/monthly",
			"/summary/monthly?year=2024",
			"/summary/monthly?year=2024&month=13",
			"/summary/monthly?year=2024&month=0",
			"/summary/monthly?year=1999&month=5",
			"/summary/monthly?year=two&month=5",
		} {
			rec := doRequest(t, s, http.MethodGet, target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}

func TestCategoryCaseHandling(t *testing.T) {
	s := newTestServer(t)

	createExpense(t, s, 10, "food", "2024-03-15")
	createExpense(t, s, 20, "Food", "2024-03-15")

	// Listing matches categories case-insensitively.
	rec := doRequest(t, s, http.MethodGet, "/expenses?category=FOOD", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []core.Expense
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)

	// The summary keeps the stored spellings apart.
	rec = doRequest(t, s, http.MethodGet, "/summary/monthly?year=2024&month=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary core.MonthlySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Len(t, summary.ByCategory, 2)
	assert.InDelta(t, 30, summary.GrandTotal, 0.001)
}

func TestRateLimiting(t *testing.T) {
	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "budget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	s := NewServer("127.0.0.1:0", store, "sqlite", Options{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		rec := doRequest(t, s, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}
