package core

import "github.com/shopspring/decimal"

// Recompute performs a full aggregation pass over the ledger. Spent and Count
// are rebuilt from scratch for every category. Average is overwritten only for
// categories with at least one matching transaction; the others keep the
// value from the previous pass.
func Recompute(l *Ledger) {
	for _, c := range l.categories {
		c.Spent = decimal.Zero
		c.Count = 0
	}

	for _, t := range l.transactions {
		for _, c := range l.categories {
			if t.Matches(c.Name) {
				c.Spent = c.Spent.Add(t.Amount)
				c.Count++
			}
		}
	}

	for _, c := range l.categories {
		if c.Count > 0 {
			c.Average = c.Spent.Div(decimal.NewFromInt(int64(c.Count)))
		}
	}
}
