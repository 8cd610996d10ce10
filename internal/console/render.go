package console

import (
	"fmt"
	"io"

	"budget/internal/budget"
	"budget/internal/core"
	"budget/internal/services"

	"github.com/shopspring/decimal"
)

const rule = "====================================="

func money(d decimal.Decimal) string { return "$" + core.FormatAmount(d) }

func pct(d decimal.Decimal) string { return d.StringFixed(1) + "%" }

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
}

func RenderMenu(w io.Writer) {
	header(w, "  SMART BUDGET ANALYZER")
	for i, item := range menuItems {
		fmt.Fprintf(w, " %d. %s\n", i+1, item)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprint(w, "Enter choice: ")
}

func RenderDashboard(w io.Writer, s services.DashboardSummary) {
	header(w, "     FINANCIAL DASHBOARD")
	fmt.Fprintf(w, " Monthly Budget: %s\n", money(s.MonthlyBudget))
	fmt.Fprintf(w, " Total Spent: %s\n", money(s.TotalSpent))
	fmt.Fprintf(w, " Remaining: %s\n", money(s.Remaining))
	fmt.Fprintf(w, " Transactions: %d\n", s.TransactionCount)
	fmt.Fprintf(w, " Budget Used: %s\n", pct(s.BudgetUsedPercent))

	fmt.Fprintln(w, "\n--- CATEGORY BREAKDOWN ---")
	for _, c := range s.PerCategory {
		fmt.Fprintf(w, " %s: %s (%s)\n", c.Name, money(c.Spent), pct(c.Percent))
	}
	fmt.Fprintln(w, rule)
}

func RenderSpendingAnalysis(w io.Writer, rows []services.CategoryAnalysis) {
	header(w, "  SPENDING PATTERN ANALYSIS")
	fmt.Fprintln(w)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No transactions to analyze.")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(w, "[%s]\n", r.Category)
		fmt.Fprintf(w, "    Total: %s | Average per transaction: %s\n", money(r.Total), money(r.Average))
		fmt.Fprintf(w, "    Transactions: %d | Budget usage: %s\n", r.Count, pct(r.UsagePercent))
		switch r.Health {
		case budget.High:
			fmt.Fprintln(w, "    [!] HIGH SPENDING - Consider reducing expenses in this category")
		case budget.Moderate:
			fmt.Fprintln(w, "    [*] MODERATE SPENDING - Keep monitoring")
		default:
			fmt.Fprintln(w, "    [OK] HEALTHY SPENDING")
		}
		fmt.Fprintln(w)
	}
}

func RenderAnomalies(w io.Writer, r services.AnomalyReport) {
	header(w, "  ANOMALY DETECTION REPORT")
	fmt.Fprintln(w)
	for _, scan := range r.Categories {
		fmt.Fprintf(w, "[*] Category: %s\n", scan.Category)
		fmt.Fprintf(w, "    Average: %s | Std Dev: %s\n", money(scan.Mean), money(scan.StdDev))
		for _, a := range scan.Anomalies {
			fmt.Fprintf(w, "    [!] ANOMALY: %s on %s\n", money(a.Transaction.Amount), a.Transaction.Date)
			fmt.Fprintf(w, "        Description: %s\n", a.Transaction.Description)
			fmt.Fprintf(w, "        Z-Score: %s\n\n", a.ZScore.StringFixed(2))
		}
	}
	if len(r.Anomalies) == 0 {
		fmt.Fprintln(w, "[OK] No anomalies detected! Your spending is consistent.")
		return
	}
	fmt.Fprintf(w, "\n[WARNING] Found %d anomalous transactions!\n", len(r.Anomalies))
}

func RenderTransactions(w io.Writer, txs []core.Transaction) {
	header(w, "      ALL TRANSACTIONS")
	fmt.Fprintln(w)
	if len(txs) == 0 {
		fmt.Fprintln(w, "No transactions recorded.")
		return
	}
	for _, t := range txs {
		fmt.Fprintf(w, "[%d] %s | %s | %s\n", t.ID, t.Date, t.Category, money(t.Amount))
		fmt.Fprintf(w, "    Description: %s\n\n", t.Description)
	}
}

// RenderMonthlyReport prints the report; t supplies the bands quoted in the
// recommendation.
func RenderMonthlyReport(w io.Writer, r services.MonthlyReport, t budget.Thresholds) {
	header(w, "  MONTHLY FINANCIAL REPORT")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Transactions: %d\n", r.TransactionCount)
	fmt.Fprintf(w, "Total Spent: %s\n", money(r.TotalSpent))
	fmt.Fprintf(w, "Monthly Budget: %s\n", money(r.Budget))
	fmt.Fprintf(w, "Remaining Budget: %s\n\n", money(r.Remaining))
	fmt.Fprintf(w, "Budget Utilization: %s\n\n", pct(r.UtilizationPercent))

	fmt.Fprintln(w, "Category Breakdown:")
	for _, c := range r.PerCategory {
		fmt.Fprintf(w, "  %s: %s (%s of budget)\n", c.Name, money(c.Spent), pct(c.Percent))
	}

	fmt.Fprintln(w, "\nRecommendations:")
	switch r.OverallHealth {
	case budget.Critical:
		fmt.Fprintf(w, "[!] You are using %s%%+ of your budget. Reduce spending immediately!\n", t.OverallCritical.String())
	case budget.Warn:
		fmt.Fprintf(w, "[*] You are using %s%%+ of your budget. Start cutting down expenses.\n", t.OverallWarn.String())
	default:
		fmt.Fprintln(w, "[OK] Your spending is under control. Keep it up!")
	}
}
