package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"budget/internal/core"
	"budget/internal/storage"
)

// parseListFilter validates the query parameters of GET /expenses.
// Out-of-range paging values are rejected, never clamped.
func parseListFilter(query url.Values) (storage.ListFilter, error) {
	filter := storage.ListFilter{Limit: storage.DefaultListLimit}

	if v := strings.TrimSpace(query.Get("start_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return filter, errors.New("start_date must be a valid YYYY-MM-DD date")
		}
		filter.StartDate = d
	}

	if v := strings.TrimSpace(query.Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return filter, errors.New("end_date must be a valid YYYY-MM-DD date")
		}
		filter.EndDate = d
	}

	filter.Category = strings.TrimSpace(query.Get("category"))

	if v := strings.TrimSpace(query.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > storage.MaxListLimit {
			return filter, fmt.Errorf("limit must be an integer between 1 and %d", storage.MaxListLimit)
		}
		filter.Limit = n
	}

	if v := strings.TrimSpace(query.Get("offset")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = n
	}

	return filter, nil
}

// parseExpenseID reads the {id} path segment. Anything that is not a
// positive integer is a client error, not a missing resource.
func parseExpenseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("expense id must be a positive integer")
	}
	return id, nil
}

// requiredInt reads a mandatory integer query parameter.
func requiredInt(query url.Values, key string) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
