package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budget/internal/core"
)

const expenseColumns = "id, amount, category, description, expense_date, created_at"

// dialect captures the two points where the backends actually differ.
type dialect interface {
	name() string
	placeholder() placeholderFunc
	insertExpense(ctx context.Context, tx *sql.Tx, e core.NewExpense, createdAt time.Time) (int64, error)
}

// sqlStore implements Store on top of database/sql for both dialects.
type sqlStore struct {
	db      *sql.DB
	dialect dialect
	target  string
}

func (s *sqlStore) CreateExpense(ctx context.Context, e core.NewExpense) (core.Expense, error) {
	e.Normalize()

	// Insert and re-read in one transaction so the response always reflects
	// a row that existed at commit time, including storage-side coercion of
	// the amount.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	id, err := s.dialect.insertExpense(ctx, tx, e, time.Now().UTC())
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	row := tx.QueryRowContext(ctx, s.rebind("SELECT "+expenseColumns+" FROM expenses WHERE id = ?"), id)
	exp, err := scanExpense(row)
	if err != nil {
		return core.Expense{}, fmt.Errorf("reread expense %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("commit create: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"id", exp.ID,
		"amount", exp.Amount,
		"category", exp.Category,
		"expense_date", exp.Date.String(),
		"backend", s.dialect.name())

	return exp, nil
}

func (s *sqlStore) ListExpenses(ctx context.Context, f ListFilter) ([]core.Expense, error) {
	b := newWhereBuilder(s.dialect.placeholder())
	if !f.StartDate.IsZero() {
		b.Where("expense_date >= ?", f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		b.Where("expense_date <= ?", f.EndDate.String())
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		b.Where("lower(category) = lower(?)", c)
	}

	limit := f.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}

	query := "SELECT " + expenseColumns + " FROM expenses" + b.Clause() +
		" ORDER BY expense_date DESC, id DESC LIMIT " + b.Bind(limit) + " OFFSET " + b.Bind(f.Offset)

	rows, err := s.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

func (s *sqlStore) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+expenseColumns+" FROM expenses WHERE id = ?"), id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

func (s *sqlStore) DeleteExpense(ctx context.Context, id int64) error {
	// Existence is checked first so a delete of a missing row reports
	// ErrNotFound instead of silently succeeding.
	var found int64
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT id FROM expenses WHERE id = ?"), id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check expense %d: %w", id, err)
	}

	if _, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM expenses WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "backend", s.dialect.name())
	return nil
}

func (s *sqlStore) MonthlySummary(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	first, last := core.MonthRange(year, month)
	summary := core.MonthlySummary{
		Year:       year,
		Month:      month,
		ByCategory: []core.CategoryTotal{},
	}

	query := s.rebind(`SELECT category, ROUND(SUM(amount), 2) AS total
		FROM expenses
		WHERE expense_date >= ? AND expense_date <= ?
		GROUP BY category
		ORDER BY total DESC, category ASC`)

	rows, err := s.db.QueryContext(ctx, query, first.String(), last.String())
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return core.MonthlySummary{}, fmt.Errorf("scan category total: %w", err)
		}
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return core.MonthlySummary{}, fmt.Errorf("iterate category totals: %w", err)
	}

	grand := s.rebind("SELECT COALESCE(ROUND(SUM(amount), 2), 0) FROM expenses WHERE expense_date >= ? AND expense_date <= ?")
	if err := s.db.QueryRowContext(ctx, grand, first.String(), last.String()).Scan(&summary.GrandTotal); err != nil {
		return core.MonthlySummary{}, fmt.Errorf("grand total: %w", err)
	}

	return summary, nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStore) Target() string {
	return s.target
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? markers in a fixed query to the dialect's placeholders.
func (s *sqlStore) rebind(query string) string {
	b := newWhereBuilder(s.dialect.placeholder())
	return b.rewrite(query)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(r rowScanner) (core.Expense, error) {
	var (
		e          core.Expense
		rawDate    any
		rawCreated any
	)
	if err := r.Scan(&e.ID, &e.Amount, &e.Category, &e.Description, &rawDate, &rawCreated); err != nil {
		return core.Expense{}, err
	}

	d, err := asDate(rawDate)
	if err != nil {
		return core.Expense{}, err
	}
	e.Date = d

	t, err := asTime(rawCreated)
	if err != nil {
		return core.Expense{}, err
	}
	e.CreatedAt = t

	return e, nil
}

// asDate normalizes the driver representation of a date column: lib/pq
// returns time.Time for DATE, modernc/sqlite returns the stored TEXT.
func asDate(v any) (core.Date, error) {
	switch t := v.(type) {
	case time.Time:
		return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
	case string:
		return core.ParseDate(t)
	case []byte:
		return core.ParseDate(string(t))
	}
	return core.Date{}, fmt.Errorf("unsupported date representation %T", v)
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTimestamp(t)
	case []byte:
		return parseTimestamp(string(t))
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp representation %T", v)
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %q", s)
}
