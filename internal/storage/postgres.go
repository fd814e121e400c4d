package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"budget/internal/core"

	_ "github.com/lib/pq"
)

// PostgresStore is the client/server adapter.
type PostgresStore struct {
	sqlStore
}

// NewPostgres connects to the database at databaseURL and applies pending
// migrations.
func NewPostgres(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runPostgresMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{sqlStore{
		db:      db,
		dialect: postgresDialect{},
		target:  RedactURL(databaseURL),
	}}, nil
}

type postgresDialect struct{}

func (postgresDialect) name() string { return "postgres" }

func (postgresDialect) placeholder() placeholderFunc { return dollarPlaceholder }

func (postgresDialect) insertExpense(ctx context.Context, tx *sql.Tx, e core.NewExpense, createdAt time.Time) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"INSERT INTO expenses (amount, category, description, expense_date, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		e.Amount, e.Category, e.Description, e.Date.String(), createdAt).Scan(&id)
	return id, err
}

// RedactURL strips the password from a connection URL so it can be logged
// and reported by the health endpoint.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}
