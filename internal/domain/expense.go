package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Expense is a single logged spend against a project and category.
// IDs are assigned by the store on insert. CategoryID and ProjectID may
// dangle after a delete; lookups resolve them through fallbacks instead
// of failing.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"` // YYYY-MM-DD
	CategoryID  string          `json:"categoryId"`
	ProjectID   string          `json:"projectId"`
	Receipt     string          `json:"receipt,omitempty"` // data URI or stored object URL
}

// DateLayout is the calendar date format used across the wire and the store.
const DateLayout = "2006-01-02"

// MaxExpenseDescriptionLength bounds the free-text label.
const MaxExpenseDescriptionLength = 255

// ExpenseRepository is the store contract for the expenses table.
// Rows are returned newest-first (date descending).
type ExpenseRepository interface {
	GetAll(ctx context.Context) ([]*Expense, error)
	Insert(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, id string) error
}
