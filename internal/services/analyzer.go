package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"budget/internal/amqp"
	"budget/internal/budget"
	"budget/internal/cache"
	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/stats"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultViewCacheSize = 32
	defaultViewCacheTTL  = 5 * time.Minute
)

// AlertPublisher receives an alert for every anomalous transaction at the
// moment it is recorded.
type AlertPublisher interface {
	PublishAnomalyAlert(ctx context.Context, msg *amqp.AnomalyAlertMessage) error
}

// Analyzer is the session facade over one ledger. It records transactions
// and categories and serves the derived views, memoized per ledger revision.
type Analyzer struct {
	mu        sync.Mutex
	ledger    *core.Ledger
	evaluator *budget.Evaluator
	detector  stats.Config
	views     cache.Cache[any]
	publisher AlertPublisher
	sessionID string
	logger    *log.Logger
}

// NewAnalyzer wires the engine together. A nil evaluator, cache or logger is
// replaced by a default; a nil publisher disables alerts.
func NewAnalyzer(ledger *core.Ledger, evaluator *budget.Evaluator, detector stats.Config,
	views cache.Cache[any], publisher AlertPublisher, logger *log.Logger) *Analyzer {
	if evaluator == nil {
		evaluator = budget.NewEvaluator(budget.DefaultThresholds())
	}
	if views == nil {
		views = cache.NewLRUCache[any](defaultViewCacheSize, defaultViewCacheTTL)
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Analyzer{
		ledger:    ledger,
		evaluator: evaluator,
		detector:  detector,
		views:     views,
		publisher: publisher,
		sessionID: uuid.NewString(),
		logger:    logger.WithComponent(log.ComponentAnalyzer),
	}
}

// AddTransaction records a transaction and, when a publisher is set and the
// new amount is an outlier in its category, publishes an alert. Publish
// failures are logged only.
func (a *Analyzer) AddTransaction(ctx context.Context, category string, amount decimal.Decimal, description, date string) core.Transaction {
	a.mu.Lock()
	t := a.ledger.AddTransaction(category, amount, description, date)
	alert := a.alertFor(t)
	rev := a.ledger.Revision()
	a.mu.Unlock()

	fields := log.NewFields().
		WithOperation(log.OpAddTransaction).
		WithTransaction(t.ID, t.Category, t.Amount, t.Date)
	a.logger.InfoContext(ctx, "Transaction added", append(fields.ToSlice(), log.FieldRevision, rev)...)

	if alert != nil {
		a.publishAlert(ctx, alert)
	}
	return t
}

// AddCategory records a category. The name must be non-blank and unique.
func (a *Analyzer) AddCategory(ctx context.Context, name string, categoryBudget decimal.Decimal) (core.Category, error) {
	if err := (core.Category{Name: name}).Validate(); err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}

	a.mu.Lock()
	c, err := a.ledger.AddCategory(name, categoryBudget)
	a.mu.Unlock()

	fields := log.NewFields().WithOperation(log.OpAddCategory).WithCategory(name, categoryBudget)
	if err != nil {
		a.logger.WarnContext(ctx, "Category rejected", fields.WithError(err).ToSlice()...)
		return core.Category{}, err
	}
	a.logger.InfoContext(ctx, "Category added", fields.ToSlice()...)
	return c, nil
}

func (a *Analyzer) SetMonthlyBudget(ctx context.Context, amount decimal.Decimal) {
	a.mu.Lock()
	a.ledger.SetMonthlyBudget(amount)
	a.mu.Unlock()

	a.logger.InfoContext(ctx, "Monthly budget set",
		log.FieldOperation, log.OpSetBudget,
		log.FieldBudget, amount.String())
}

func (a *Analyzer) MonthlyBudget() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.MonthlyBudget()
}

// SessionID identifies this analyzer's ledger. Transaction IDs are only unique
// within one session.
func (a *Analyzer) SessionID() string { return a.sessionID }

func (a *Analyzer) Thresholds() budget.Thresholds { return a.evaluator.Thresholds() }

// Transactions returns every transaction in insertion order.
func (a *Analyzer) Transactions() []core.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Transactions()
}

// DashboardSummary reports totals and the unsmoothed share of the monthly
// budget taken by each category with spend.
func (a *Analyzer) DashboardSummary() DashboardSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	return memo(a, ViewDashboard, log.OpDashboard, DashboardSummary.clone, func() DashboardSummary {
		l := a.ledger
		mb := l.MonthlyBudget()
		total := l.TotalSpent()
		s := DashboardSummary{
			MonthlyBudget:     mb,
			TotalSpent:        total,
			Remaining:         l.Remaining(),
			TransactionCount:  l.TransactionCount(),
			BudgetUsedPercent: a.evaluator.CategoryUsagePercent(total, mb),
		}
		for _, c := range activeCategories(l.Categories()) {
			s.PerCategory = append(s.PerCategory, CategorySpend{
				Name:    c.Name,
				Spent:   c.Spent,
				Percent: a.evaluator.CategoryUsagePercent(c.Spent, mb),
			})
		}
		return s
	})
}

// SpendingAnalysis classifies every category with spend. It is empty while
// the ledger holds no transactions.
func (a *Analyzer) SpendingAnalysis() []CategoryAnalysis {
	a.mu.Lock()
	defer a.mu.Unlock()

	return memo(a, ViewAnalysis, log.OpAnalysis, cloneAnalysis, func() []CategoryAnalysis {
		l := a.ledger
		if l.TransactionCount() == 0 {
			return nil
		}
		mb := l.MonthlyBudget()
		var out []CategoryAnalysis
		for _, c := range activeCategories(l.Categories()) {
			pct := a.evaluator.SmoothedUsagePercent(c.Spent, mb)
			out = append(out, CategoryAnalysis{
				Category:     c.Name,
				Total:        c.Spent,
				Average:      c.Average,
				Count:        c.Count,
				UsagePercent: pct,
				Health:       a.evaluator.ClassifyCategoryHealth(pct),
			})
		}
		return out
	})
}

// Anomalies runs the detector over the whole ledger.
func (a *Analyzer) Anomalies() AnomalyReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	return memo(a, ViewAnomalies, log.OpAnomalies, AnomalyReport.clone, func() AnomalyReport {
		var r AnomalyReport
		r.Categories = a.detector.Scan(a.ledger)
		for _, scan := range r.Categories {
			r.Anomalies = append(r.Anomalies, scan.Anomalies...)
		}
		return r
	})
}

// MonthlyReport summarizes the month using smoothed percentages.
func (a *Analyzer) MonthlyReport() MonthlyReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	return memo(a, ViewReport, log.OpReport, MonthlyReport.clone, func() MonthlyReport {
		l := a.ledger
		mb := l.MonthlyBudget()
		total := l.TotalSpent()
		pct := a.evaluator.OverallUsagePercent(total, mb)
		r := MonthlyReport{
			TransactionCount:   l.TransactionCount(),
			TotalSpent:         total,
			Budget:             mb,
			Remaining:          l.Remaining(),
			UtilizationPercent: pct,
			OverallHealth:      a.evaluator.ClassifyOverallHealth(pct),
		}
		for _, c := range activeCategories(l.Categories()) {
			r.PerCategory = append(r.PerCategory, CategorySpend{
				Name:    c.Name,
				Spent:   c.Spent,
				Percent: a.evaluator.SmoothedUsagePercent(c.Spent, mb),
			})
		}
		return r
	})
}

// Close releases the publisher if it holds resources.
func (a *Analyzer) Close() error {
	if closer, ok := a.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}

// memo serves view name from the cache at the current revision, building
// and storing it on a miss. Every caller gets its own clone, so the cached
// value is never shared. Callers hold a.mu.
func memo[T any](a *Analyzer, name, op string, clone func(T) T, build func() T) T {
	rev := a.ledger.Revision()
	key := cache.RevisionKey(name, rev)
	if v, ok := a.views.Get(key); ok {
		if typed, ok := v.(T); ok {
			a.logger.Debug("View served",
				log.FieldOperation, op,
				log.FieldView, name,
				log.FieldRevision, rev,
				log.FieldCacheHit, true)
			return clone(typed)
		}
	}
	v := build()
	a.views.Set(key, v)
	a.logger.Debug("View built",
		log.FieldOperation, op,
		log.FieldView, name,
		log.FieldRevision, rev,
		log.FieldCacheHit, false)
	return clone(v)
}

// alertFor scores t against its category the same way Scan does and returns
// an alert when it is anomalous. Callers hold a.mu.
func (a *Analyzer) alertFor(t core.Transaction) *amqp.AnomalyAlertMessage {
	if a.publisher == nil {
		return nil
	}
	if _, ok := a.ledger.Category(t.Category); !ok {
		return nil
	}
	avg := stats.Average(a.ledger, t.Category)
	if !avg.IsPositive() {
		return nil
	}
	sd := stats.StandardDeviation(a.ledger, t.Category)
	z := a.detector.ZScore(t.Amount, avg, sd)
	if !a.detector.IsAnomalous(z) {
		return nil
	}
	return &amqp.AnomalyAlertMessage{
		SessionID:     a.sessionID,
		TransactionID: t.ID,
		Category:      t.Category,
		Amount:        t.Amount,
		Date:          t.Date,
		Description:   t.Description,
		ZScore:        z,
		Mean:          avg,
		StdDev:        sd,
	}
}

func (a *Analyzer) publishAlert(ctx context.Context, msg *amqp.AnomalyAlertMessage) {
	if err := a.publisher.PublishAnomalyAlert(ctx, msg); err != nil {
		a.logger.ErrorContext(ctx, "Failed to publish anomaly alert",
			log.FieldOperation, log.OpPublish,
			log.FieldTransactionID, msg.TransactionID,
			log.FieldError, err)
		return
	}
	a.logger.InfoContext(ctx, "Anomaly alert published",
		log.FieldTransactionID, msg.TransactionID,
		log.FieldCategory, msg.Category,
		log.FieldZScore, msg.ZScore.StringFixed(2))
}
