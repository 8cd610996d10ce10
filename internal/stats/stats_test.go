package stats

import (
	"testing"

	"budget/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerWith(t *testing.T, category string, amounts ...float64) *core.Ledger {
	t.Helper()
	l := core.NewLedger(core.DefaultMonthlyBudget, core.RecomputeOnTransaction)
	_, err := l.AddCategory(category, decimal.Zero)
	require.NoError(t, err)
	for _, a := range amounts {
		l.AddTransaction(category, decimal.NewFromFloat(a), "", "2025-01-01")
	}
	return l
}

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func TestAverage(t *testing.T) {
	l := ledgerWith(t, "Food", 100, 100, 100, 500)
	assert.InDelta(t, 200, f(Average(l, "Food")), 1e-9)
	assert.True(t, Average(l, "Nope").IsZero())
	assert.True(t, Average(l, "food").IsZero(), "category match is case-sensitive")
}

func TestStandardDeviation(t *testing.T) {
	tests := []struct {
		name    string
		amounts []float64
		want    float64
	}{
		{"no transactions", nil, 0},
		{"single transaction", []float64{42}, 0},
		{"identical amounts", []float64{50, 50, 50}, 0},
		{"sample denominator", []float64{100, 100, 100, 500}, 200},
		{"small series", []float64{10, 12, 11, 13, 200}, 84.3072},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledgerWith(t, "Food", tt.amounts...)
			assert.InDelta(t, tt.want, f(StandardDeviation(l, "Food")), 1e-4)
		})
	}
}

func TestStatisticsIgnoreCachedAggregates(t *testing.T) {
	// Transactions recorded before the category exist are not in the cached
	// aggregate but still count here.
	l := core.NewLedger(core.DefaultMonthlyBudget, core.RecomputeOnTransaction)
	l.AddTransaction("Food", decimal.NewFromInt(10), "", "")
	l.AddTransaction("Food", decimal.NewFromInt(30), "", "")
	_, _ = l.AddCategory("Food", decimal.Zero)

	c, _ := l.Category("Food")
	require.Equal(t, 0, c.Count)
	assert.InDelta(t, 20, f(Average(l, "Food")), 1e-9)
	assert.InDelta(t, 14.1421, f(StandardDeviation(l, "Food")), 1e-4)
}
