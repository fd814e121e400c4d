package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the only accepted wire format for calendar dates.
const DateLayout = "2006-01-02"

var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrEmptyCategory = errors.New("category cannot be empty")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrInvalidYear   = errors.New("year must be between 2000 and 2100")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
)

type (
	// Date is a calendar date with no time component.
	Date struct {
		time.Time
	}

	// Expense is one recorded spend event as held by the store.
	// ID and CreatedAt are store-assigned and immutable.
	Expense struct {
		ID          int64     `json:"id"`
		Amount      float64   `json:"amount"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        Date      `json:"expense_date"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// NewExpense is the caller-supplied input for creating an expense.
	NewExpense struct {
		Amount      float64
		Category    string
		Description string
		Date        Date
	}
)

// ParseDate parses a strict YYYY-MM-DD date. No other layout is accepted.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date on the server clock, in UTC.
// Defaulted expense dates always come from here so deployments do not
// disagree based on the host timezone.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// String returns the date in wire format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Normalize trims string fields in place. Trimming happens before any
// validation or comparison, so surrounding whitespace never affects
// category matching or what gets persisted.
func (e *NewExpense) Normalize() {
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
}

func (e NewExpense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
