package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"budget/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the embedded file-backed adapter.
type SQLiteStore struct {
	sqlStore
}

// NewSQLite opens (creating if necessary) the database at dbPath and applies
// pending migrations.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{sqlStore{
		db:      db,
		dialect: sqliteDialect{},
		target:  dbPath,
	}}, nil
}

type sqliteDialect struct{}

func (sqliteDialect) name() string { return "sqlite" }

func (sqliteDialect) placeholder() placeholderFunc { return questionPlaceholder }

func (sqliteDialect) insertExpense(ctx context.Context, tx *sql.Tx, e core.NewExpense, createdAt time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO expenses (amount, category, description, expense_date, created_at) VALUES (?, ?, ?, ?, ?)",
		e.Amount, e.Category, e.Description, e.Date.String(), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
