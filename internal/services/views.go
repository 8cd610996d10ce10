package services

import (
	"slices"

	"budget/internal/budget"
	"budget/internal/core"
	"budget/internal/stats"

	"github.com/shopspring/decimal"
)

// View names, also used as cache key prefixes.
const (
	ViewDashboard = "dashboard"
	ViewAnalysis  = "analysis"
	ViewAnomalies = "anomalies"
	ViewReport    = "report"
)

// CategorySpend is one line of a category breakdown.
type CategorySpend struct {
	Name    string
	Spent   decimal.Decimal
	Percent decimal.Decimal // of the overall monthly budget
}

type DashboardSummary struct {
	MonthlyBudget     decimal.Decimal
	TotalSpent        decimal.Decimal
	Remaining         decimal.Decimal
	TransactionCount  int
	BudgetUsedPercent decimal.Decimal
	PerCategory       []CategorySpend
}

// CategoryAnalysis is the spending pattern of a single category.
type CategoryAnalysis struct {
	Category     string
	Total        decimal.Decimal
	Average      decimal.Decimal
	Count        int
	UsagePercent decimal.Decimal
	Health       budget.CategoryHealth
}

// AnomalyReport lists every scanned category together with the flagged
// transactions, in detector order.
type AnomalyReport struct {
	Categories []stats.CategoryScan
	Anomalies  []stats.Anomaly
}

type MonthlyReport struct {
	TransactionCount   int
	TotalSpent         decimal.Decimal
	Budget             decimal.Decimal
	Remaining          decimal.Decimal
	UtilizationPercent decimal.Decimal
	PerCategory        []CategorySpend
	OverallHealth      budget.OverallHealth
}

// activeCategories keeps the categories with at least one counted transaction.
func activeCategories(cats []core.Category) []core.Category {
	out := make([]core.Category, 0, len(cats))
	for _, c := range cats {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (s DashboardSummary) clone() DashboardSummary {
	s.PerCategory = slices.Clone(s.PerCategory)
	return s
}

func cloneAnalysis(rows []CategoryAnalysis) []CategoryAnalysis {
	return slices.Clone(rows)
}

func (r AnomalyReport) clone() AnomalyReport {
	r.Anomalies = slices.Clone(r.Anomalies)
	if r.Categories != nil {
		cats := make([]stats.CategoryScan, len(r.Categories))
		for i, c := range r.Categories {
			c.Anomalies = slices.Clone(c.Anomalies)
			cats[i] = c
		}
		r.Categories = cats
	}
	return r
}

func (r MonthlyReport) clone() MonthlyReport {
	r.PerCategory = slices.Clone(r.PerCategory)
	return r
}
