// Package budget turns spend figures into percentages of the monthly budget
// and maps those percentages to health tiers.
//
// Category percentages are measured against the overall monthly budget, not
// the category's own Budget field. The per-category budget is recorded but
// currently never compared against spend.
package budget

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CategoryHealth is the tier of a single category's spend.
type CategoryHealth int

const (
	Healthy CategoryHealth = iota
	Moderate
	High
)

func (h CategoryHealth) String() string {
	switch h {
	case High:
		return "HIGH"
	case Moderate:
		return "MODERATE"
	default:
		return "HEALTHY"
	}
}

// OverallHealth is the tier of the whole month's spend.
type OverallHealth int

const (
	OK OverallHealth = iota
	Warn
	Critical
)

func (h OverallHealth) String() string {
	switch h {
	case Critical:
		return "CRITICAL"
	case Warn:
		return "WARN"
	default:
		return "OK"
	}
}

// Thresholds are the percentage bands and the smoothing constant used by an
// Evaluator. Every band is exclusive on its lower edge.
type Thresholds struct {
	Smoothing        decimal.Decimal
	CategoryHigh     decimal.Decimal
	CategoryModerate decimal.Decimal
	OverallCritical  decimal.Decimal
	OverallWarn      decimal.Decimal
}

// DefaultThresholds returns smoothing 0.01, category bands 50/30 and overall
// bands 90/75.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Smoothing:        decimal.RequireFromString("0.01"),
		CategoryHigh:     decimal.NewFromInt(50),
		CategoryModerate: decimal.NewFromInt(30),
		OverallCritical:  decimal.NewFromInt(90),
		OverallWarn:      decimal.NewFromInt(75),
	}
}

type Evaluator struct {
	t Thresholds
}

func NewEvaluator(t Thresholds) *Evaluator {
	return &Evaluator{t: t}
}

func (e *Evaluator) Thresholds() Thresholds { return e.t }

// CategoryUsagePercent is spent / monthlyBudget * 100. A zero budget yields 0.
func (e *Evaluator) CategoryUsagePercent(spent, monthlyBudget decimal.Decimal) decimal.Decimal {
	return percent(spent, monthlyBudget)
}

// SmoothedUsagePercent is amount / (monthlyBudget + smoothing) * 100. A zero
// denominator yields 0.
func (e *Evaluator) SmoothedUsagePercent(amount, monthlyBudget decimal.Decimal) decimal.Decimal {
	return percent(amount, monthlyBudget.Add(e.t.Smoothing))
}

// OverallUsagePercent is the smoothed percentage of the monthly budget
// consumed by totalSpent.
func (e *Evaluator) OverallUsagePercent(totalSpent, monthlyBudget decimal.Decimal) decimal.Decimal {
	return e.SmoothedUsagePercent(totalSpent, monthlyBudget)
}

func (e *Evaluator) ClassifyCategoryHealth(pct decimal.Decimal) CategoryHealth {
	switch {
	case pct.GreaterThan(e.t.CategoryHigh):
		return High
	case pct.GreaterThan(e.t.CategoryModerate):
		return Moderate
	default:
		return Healthy
	}
}

func (e *Evaluator) ClassifyOverallHealth(pct decimal.Decimal) OverallHealth {
	switch {
	case pct.GreaterThan(e.t.OverallCritical):
		return Critical
	case pct.GreaterThan(e.t.OverallWarn):
		return Warn
	default:
		return OK
	}
}

func percent(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Mul(hundred)
}

var defaultEvaluator = NewEvaluator(DefaultThresholds())

// CategoryUsagePercent uses the default thresholds.
func CategoryUsagePercent(spent, monthlyBudget decimal.Decimal) decimal.Decimal {
	return defaultEvaluator.CategoryUsagePercent(spent, monthlyBudget)
}

// OverallUsagePercent uses the default thresholds.
func OverallUsagePercent(totalSpent, monthlyBudget decimal.Decimal) decimal.Decimal {
	return defaultEvaluator.OverallUsagePercent(totalSpent, monthlyBudget)
}

// ClassifyCategoryHealth uses the default thresholds.
func ClassifyCategoryHealth(pct decimal.Decimal) CategoryHealth {
	return defaultEvaluator.ClassifyCategoryHealth(pct)
}

// ClassifyOverallHealth uses the default thresholds.
func ClassifyOverallHealth(pct decimal.Decimal) OverallHealth {
	return defaultEvaluator.ClassifyOverallHealth(pct)
}
