// Package backend selects and constructs the configured storage backend.
package backend

import (
	"fmt"
	"log/slog"

	"budget/internal/config"
	"budget/internal/storage"
)

// Type identifies a storage backend implementation.
type Type string

const (
	TypeSQLite   Type = "sqlite"
	TypePostgres Type = "postgres"
)

func (t Type) String() string {
	return string(t)
}

// IsValid reports whether t names a known backend.
func (t Type) IsValid() bool {
	switch t {
	case TypeSQLite, TypePostgres:
		return true
	}
	return false
}

// SupportedTypes returns the backends New can construct.
func SupportedTypes() []Type {
	return []Type{TypeSQLite, TypePostgres}
}

// New builds the storage.Store selected by the configuration. The store is
// ready to use: the connection has been verified and migrations applied.
func New(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch Type(cfg.StorageBackend) {
	case TypeSQLite:
		store, err := storage.NewSQLite(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized storage backend", "backend", TypeSQLite, "target", store.Target())
		return store, nil

	case TypePostgres:
		store, err := storage.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		logger.Info("Initialized storage backend", "backend", TypePostgres, "target", store.Target())
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q (supported: %v)", cfg.StorageBackend, SupportedTypes())
}
