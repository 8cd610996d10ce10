package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// Transaction is a single recorded expense. It is never mutated after
	// the ledger assigns its ID.
	Transaction struct {
		ID          int
		Date        string
		Category    string // Category name, not required to exist
		Amount      decimal.Decimal
		Description string
	}

	// Category is a named spending bucket. Spent, Count and Average are
	// derived by Recompute and must not be set by callers.
	Category struct {
		Name    string
		Budget  decimal.Decimal
		Spent   decimal.Decimal
		Count   int
		Average decimal.Decimal
	}
)

var (
	ErrCategoryExists    = errors.New("category already exists")
	ErrEmptyCategoryName = errors.New("empty category name")
)

// Validate checks the user supplied part of a category.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	return nil
}

// Matches reports whether t is bucketed under the category name.
// Matching is exact and case-sensitive.
func (t Transaction) Matches(name string) bool {
	return t.Category == name
}
