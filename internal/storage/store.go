// Package storage persists expenses behind a single Store interface with two
// interchangeable adapters: an embedded SQLite database and a client/server
// PostgreSQL database. The adapters share all query logic and differ only in
// driver, placeholder style and how a fresh insert id is obtained.
package storage

import (
	"context"
	"errors"

	"budget/internal/core"
)

// List pagination bounds. Out-of-range requests are rejected before the
// store is queried, never clamped.
const (
	DefaultListLimit = 200
	MaxListLimit     = 1000
)

// ErrNotFound is returned when no expense exists with the requested id.
// It is an expected outcome for get and delete, not a storage failure.
var ErrNotFound = errors.New("expense not found")

// ListFilter narrows and pages a listing. Zero-value fields are unset.
// Date bounds are inclusive; the category match is case-insensitive against
// the trimmed filter value.
type ListFilter struct {
	StartDate core.Date
	EndDate   core.Date
	Category  string
	Limit     int
	Offset    int
}

// Store is the persistence boundary for expenses.
type Store interface {
	// CreateExpense inserts a new row and re-reads it within one
	// transaction, returning the record exactly as the store now holds it.
	CreateExpense(ctx context.Context, e core.NewExpense) (core.Expense, error)

	// ListExpenses returns one page ordered by expense_date descending,
	// ties broken by id descending.
	ListExpenses(ctx context.Context, f ListFilter) ([]core.Expense, error)

	// GetExpense returns ErrNotFound when the id does not exist.
	GetExpense(ctx context.Context, id int64) (core.Expense, error)

	// DeleteExpense checks existence before deleting and returns
	// ErrNotFound when the id does not exist.
	DeleteExpense(ctx context.Context, id int64) error

	// MonthlySummary aggregates per-category and grand totals over the
	// inclusive calendar-month range, both rounded to 2 decimal places.
	MonthlySummary(ctx context.Context, year, month int) (core.MonthlySummary, error)

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error

	// Target describes the storage location for the health endpoint,
	// with credentials redacted.
	Target() string

	Close() error
}
