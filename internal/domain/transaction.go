package domain

import "strings"

// Transaction is one extracted financial record. The parser emits candidates
// with whatever field values it could recover; the validator normalizes them
// into the canonical form described below. Both shapes share this struct so
// that validation is a fixed point.
type Transaction struct {
	Description string `json:"description"`

	// Amount is nil when no usable amount could be recovered from the
	// document. A nil amount always implies NeedsManualReview.
	Amount *float64 `json:"amount"`

	Category string `json:"category"` // one of Categories after validation
	Type     string `json:"type"`     // "income" or "expense" after validation

	// Date is the transaction date as written in the document. After
	// validation it is normalized to DateLayout.
	Date string `json:"date"`

	NeedsManualReview bool `json:"needs_manual_review"`
}

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// DateLayout is the canonical date format for validated transactions.
const DateLayout = "2006-01-02"

// CategoryOtherExpense is the catch-all category substituted for anything
// outside the closed vocabulary.
const CategoryOtherExpense = "Other Expense"

// Categories is the closed category vocabulary. Every validated transaction
// carries exactly one of these.
var Categories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Groceries",
	CategoryOtherExpense,
}

var categoryIndex = func() map[string]string {
	m := make(map[string]string, len(Categories))
	for _, c := range Categories {
		m[strings.ToLower(c)] = c
	}
	return m
}()

// CanonicalCategory resolves a category name case-insensitively against the
// closed vocabulary. It returns the canonical spelling and whether the name
// was a member.
func CanonicalCategory(name string) (string, bool) {
	c, ok := categoryIndex[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// HasAmount reports whether the transaction carries a known amount.
func (t Transaction) HasAmount() bool {
	return t.Amount != nil
}

// Float64Ptr is a convenience for building transactions with literal amounts.
func Float64Ptr(v float64) *float64 {
	return &v
}
