package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name        string
		year, month int
		first, last string
	}{
		{name: "thirty-one day month", year: 2024, month: 3, first: "2024-03-01", last: "2024-03-31"},
		{name: "thirty day month", year: 2024, month: 4, first: "2024-04-01", last: "2024-04-30"},
		{name: "leap february", year: 2024, month: 2, first: "2024-02-01", last: "2024-02-29"},
		{name: "non-leap february", year: 2023, month: 2, first: "2023-02-01", last: "2023-02-28"},
		{name: "century non-leap february", year: 2100, month: 2, first: "2100-02-01", last: "2100-02-28"},
		{name: "december year rollover", year: 2024, month: 12, first: "2024-12-01", last: "2024-12-31"},
		{name: "january", year: 2025, month: 1, first: "2025-01-01", last: "2025-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := MonthRange(tt.year, tt.month)
			assert.Equal(t, tt.first, first.String())
			assert.Equal(t, tt.last, last.String())
		})
	}
}

func TestValidateSummaryPeriod(t *testing.T) {
	tests := []struct {
		name        string
		year, month int
		wantErr     error
	}{
		{name: "valid", year: 2024, month: 6},
		{name: "lower year bound", year: 2000, month: 1},
		{name: "upper year bound", year: 2100, month: 12},
		{name: "year too small", year: 1999, month: 6, wantErr: ErrInvalidYear},
		{name: "year too large", year: 2101, month: 6, wantErr: ErrInvalidYear},
		{name: "month zero", year: 2024, month: 0, wantErr: ErrInvalidMonth},
		{name: "month thirteen", year: 2024, month: 13, wantErr: ErrInvalidMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSummaryPeriod(tt.year, tt.month)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
