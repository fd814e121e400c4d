package events

import (
	"encoding/json"
	"time"
)

// Routing keys for expense lifecycle events.
const (
	TypeExpenseCreated = "expense.created"
	TypeExpenseDeleted = "expense.deleted"
)

// ExpenseEvent is the message published when an expense is created or
// deleted. It carries enough to act on without a follow-up lookup; deleted
// events only carry the id since the row is already gone.
type ExpenseEvent struct {
	Type        string    `json:"type"`
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount,omitempty"`
	Category    string    `json:"category,omitempty"`
	ExpenseDate string    `json:"expense_date,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewExpenseCreated builds the event for a freshly stored expense.
func NewExpenseCreated(id int64, amount float64, category, expenseDate string) *ExpenseEvent {
	return &ExpenseEvent{
		Type:        TypeExpenseCreated,
		ID:          id,
		Amount:      amount,
		Category:    category,
		ExpenseDate: expenseDate,
		OccurredAt:  time.Now().UTC(),
	}
}

// NewExpenseDeleted builds the event for a removed expense.
func NewExpenseDeleted(id int64) *ExpenseEvent {
	return &ExpenseEvent{
		Type:       TypeExpenseDeleted,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON creates an event from JSON bytes
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var ev ExpenseEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
