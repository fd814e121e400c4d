package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budget/internal/storage"
)

// errorResponse is the error envelope used by every failing endpoint.
type errorResponse struct {
	Detail string `json:"detail"`
}

// deleteResponse acknowledges a successful delete.
type deleteResponse struct {
	Status    string `json:"status"`
	DeletedID int64  `json:"deleted_id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeStoreError maps storage failures onto the API contract: a missing
// row is the client's problem, anything else is reported opaquely so
// backend details never leak to the caller.
func writeStoreError(ctx context.Context, w http.ResponseWriter, err error, operation string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}

	slog.ErrorContext(ctx, "Storage operation failed", "operation", operation, "error", err)
	writeError(w, http.StatusInternalServerError, "storage unavailable")
}
