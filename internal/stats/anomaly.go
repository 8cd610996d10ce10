package stats

import (
	"budget/internal/core"

	"github.com/shopspring/decimal"
)

// Config holds the numeric constants of the detector.
type Config struct {
	// Smoothing is added to the standard deviation so a category whose
	// amounts are all equal does not divide by zero.
	Smoothing decimal.Decimal
	// ZThreshold is exclusive: a transaction is flagged when |z| > ZThreshold.
	ZThreshold decimal.Decimal
}

// DefaultConfig returns the detector defaults: smoothing 0.01, threshold 2.0.
func DefaultConfig() Config {
	return Config{
		Smoothing:  decimal.RequireFromString("0.01"),
		ZThreshold: decimal.RequireFromString("2.0"),
	}
}

// Anomaly is a transaction whose amount is far from its category mean.
type Anomaly struct {
	Category    string
	Transaction core.Transaction
	ZScore      decimal.Decimal
	Mean        decimal.Decimal
	StdDev      decimal.Decimal
}

// CategorySource is a ledger view exposing categories in insertion order.
type CategorySource interface {
	TransactionSource
	Categories() []core.Category
}

// ZScore standardizes amount against mean and the smoothed stdDev.
func (c Config) ZScore(amount, mean, stdDev decimal.Decimal) decimal.Decimal {
	den := stdDev.Add(c.Smoothing)
	if den.IsZero() {
		return decimal.Zero
	}
	return amount.Sub(mean).Div(den)
}

// IsAnomalous reports whether z exceeds the threshold in absolute value.
func (c Config) IsAnomalous(z decimal.Decimal) bool {
	return z.Abs().GreaterThan(c.ZThreshold)
}

// CategoryScan is the detector output for one category.
type CategoryScan struct {
	Category  string
	Mean      decimal.Decimal
	StdDev    decimal.Decimal
	Anomalies []Anomaly
}

// Scan scores every transaction of every category with a positive mean.
// Categories are visited in insertion order and transactions within a category
// in ledger order, so the output is deterministic. A category whose mean is
// zero or negative is skipped as if it had no data.
func (c Config) Scan(src CategorySource) []CategoryScan {
	var out []CategoryScan
	txs := src.Transactions()
	for _, cat := range src.Categories() {
		xs := amounts(src, cat.Name)
		avg := mean(xs)
		if !avg.IsPositive() {
			continue
		}
		scan := CategoryScan{Category: cat.Name, Mean: avg, StdDev: sampleStdDev(xs)}
		for _, t := range txs {
			if !t.Matches(cat.Name) {
				continue
			}
			z := c.ZScore(t.Amount, scan.Mean, scan.StdDev)
			if c.IsAnomalous(z) {
				scan.Anomalies = append(scan.Anomalies, Anomaly{
					Category:    cat.Name,
					Transaction: t,
					ZScore:      z,
					Mean:        scan.Mean,
					StdDev:      scan.StdDev,
				})
			}
		}
		out = append(out, scan)
	}
	return out
}

// DetectAnomalies flattens Scan into the list of flagged transactions.
func (c Config) DetectAnomalies(src CategorySource) []Anomaly {
	var out []Anomaly
	for _, scan := range c.Scan(src) {
		out = append(out, scan.Anomalies...)
	}
	return out
}

// DetectAnomalies runs the detector with DefaultConfig.
func DetectAnomalies(src CategorySource) []Anomaly {
	return DefaultConfig().DetectAnomalies(src)
}
