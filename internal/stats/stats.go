// Package stats computes per-category statistics straight from the raw
// transactions of a ledger and flags outliers by z-score. Nothing here reads
// the cached aggregates on core.Category.
package stats

import (
	"math"

	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// TransactionSource is the part of a ledger the statistics need.
type TransactionSource interface {
	Transactions() []core.Transaction
}

// Average returns the arithmetic mean of the amounts in category, or zero
// when no transaction matches.
func Average(src TransactionSource, category string) decimal.Decimal {
	return mean(amounts(src, category))
}

// StandardDeviation returns the sample standard deviation (n-1 denominator)
// of the amounts in category, or zero with fewer than two matches.
func StandardDeviation(src TransactionSource, category string) decimal.Decimal {
	return sampleStdDev(amounts(src, category))
}

func amounts(src TransactionSource, category string) []decimal.Decimal {
	var out []decimal.Decimal
	for _, t := range src.Transactions() {
		if t.Matches(category) {
			out = append(out, t.Amount)
		}
	}
	return out
}

func mean(xs []decimal.Decimal) decimal.Decimal {
	if len(xs) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, xs...).Div(decimal.NewFromInt(int64(len(xs))))
}

func sampleStdDev(xs []decimal.Decimal) decimal.Decimal {
	if len(xs) < 2 {
		return decimal.Zero
	}
	avg := mean(xs)
	sum := decimal.Zero
	for _, x := range xs {
		d := x.Sub(avg)
		sum = sum.Add(d.Mul(d))
	}
	variance, _ := sum.Div(decimal.NewFromInt(int64(len(xs) - 1))).Float64()
	// decimal has no square root; float64 keeps well over cent precision here.
	return decimal.NewFromFloat(math.Sqrt(variance))
}
