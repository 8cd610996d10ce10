package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultMonthlyBudget is the budget a new session starts with.
var DefaultMonthlyBudget = decimal.NewFromInt(5000)

// AggregationPolicy controls when category aggregates are recomputed.
type AggregationPolicy string

const (
	// RecomputeOnTransaction recomputes only when a transaction is added.
	// A category created after matching transactions shows zero spend until
	// the next transaction arrives.
	RecomputeOnTransaction AggregationPolicy = "transaction"
	// RecomputeOnChange also recomputes when a category is added, so earlier
	// transactions count immediately.
	RecomputeOnChange AggregationPolicy = "change"
)

// IsValid returns true for a known policy.
func (p AggregationPolicy) IsValid() bool {
	switch p {
	case RecomputeOnTransaction, RecomputeOnChange:
		return true
	default:
		return false
	}
}

// Ledger holds the transactions and categories of one session together with
// the overall monthly budget. It is not safe for concurrent use.
type Ledger struct {
	transactions  []Transaction
	categories    []*Category
	byName        map[string]*Category
	monthlyBudget decimal.Decimal
	policy        AggregationPolicy
	revision      uint64
}

// NewLedger returns an empty ledger. An invalid policy falls back to
// RecomputeOnTransaction.
func NewLedger(monthlyBudget decimal.Decimal, policy AggregationPolicy) *Ledger {
	if !policy.IsValid() {
		policy = RecomputeOnTransaction
	}
	return &Ledger{
		byName:        make(map[string]*Category),
		monthlyBudget: monthlyBudget,
		policy:        policy,
	}
}

// AddTransaction appends a transaction with the next sequential ID and
// recomputes every category aggregate.
func (l *Ledger) AddTransaction(category string, amount decimal.Decimal, description, date string) Transaction {
	t := Transaction{
		ID:          len(l.transactions) + 1,
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: description,
	}
	l.transactions = append(l.transactions, t)
	l.revision++
	Recompute(l)
	return t
}

// AddCategory appends a category with zeroed derived fields.
func (l *Ledger) AddCategory(name string, budget decimal.Decimal) (Category, error) {
	if _, ok := l.byName[name]; ok {
		return Category{}, fmt.Errorf("add category %q: %w", name, ErrCategoryExists)
	}
	c := &Category{Name: name, Budget: budget}
	l.categories = append(l.categories, c)
	l.byName[name] = c
	l.revision++
	if l.policy == RecomputeOnChange {
		Recompute(l)
	}
	return *c, nil
}

// SetMonthlyBudget replaces the overall monthly budget.
func (l *Ledger) SetMonthlyBudget(amount decimal.Decimal) {
	l.monthlyBudget = amount
	l.revision++
}

func (l *Ledger) MonthlyBudget() decimal.Decimal { return l.monthlyBudget }

func (l *Ledger) Policy() AggregationPolicy { return l.policy }

// Revision changes every time the ledger is mutated.
func (l *Ledger) Revision() uint64 { return l.revision }

func (l *Ledger) TransactionCount() int { return len(l.transactions) }

// Transactions returns a copy of all transactions in insertion order.
func (l *Ledger) Transactions() []Transaction {
	return append([]Transaction(nil), l.transactions...)
}

// Categories returns a snapshot of all categories in insertion order.
func (l *Ledger) Categories() []Category {
	out := make([]Category, len(l.categories))
	for i, c := range l.categories {
		out[i] = *c
	}
	return out
}

// Category looks up a category snapshot by name.
func (l *Ledger) Category(name string) (Category, bool) {
	c, ok := l.byName[name]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

// TotalSpent sums every transaction amount, matched to a category or not.
func (l *Ledger) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.transactions {
		total = total.Add(t.Amount)
	}
	return total
}

// Remaining is the monthly budget minus the total spent. It may be negative.
func (l *Ledger) Remaining() decimal.Decimal {
	return l.monthlyBudget.Sub(l.TotalSpent())
}
