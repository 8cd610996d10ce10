package worker

import (
	"context"
	"sort"
	"sync"
	"time"

	"budget/internal/amqp"
	"budget/internal/cache"
	"budget/internal/log"

	"github.com/shopspring/decimal"
)

const (
	seenCacheSize = 1024
	seenCacheTTL  = time.Hour
)

// CategoryAlerts is the running tally of alerts received for one category.
type CategoryAlerts struct {
	Category string
	Count    int
	MaxZ     decimal.Decimal // largest |z| seen
	Total    decimal.Decimal // sum of flagged amounts
}

// AlertWorker consumes anomaly alerts, drops redeliveries of the same
// session and transaction, and keeps a tally per category.
type AlertWorker struct {
	mu     sync.Mutex
	seen   cache.Cache[struct{}]
	tally  map[string]*CategoryAlerts
	logger *log.Logger
}

func NewAlertWorker(logger *log.Logger) *AlertWorker {
	if logger == nil {
		logger = log.Nop()
	}
	return &AlertWorker{
		seen:   cache.NewLRUCache[struct{}](seenCacheSize, seenCacheTTL),
		tally:  make(map[string]*CategoryAlerts),
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleAnomalyAlert processes a single alert message from AMQP. It never
// fails, so deliveries are always acknowledged.
func (w *AlertWorker) HandleAnomalyAlert(ctx context.Context, msg *amqp.AnomalyAlertMessage) error {
	// Requeueing would redeliver it forever.
	if msg.Category == "" {
		w.logger.WarnContext(ctx, "Dropping alert without category", log.FieldTransactionID, msg.TransactionID)
		return nil
	}

	key := msg.Key()

	w.mu.Lock()
	if _, dup := w.seen.Get(key); dup {
		w.mu.Unlock()
		w.logger.DebugContext(ctx, "Skipping redelivered alert",
			log.FieldSessionID, msg.SessionID,
			log.FieldTransactionID, msg.TransactionID)
		return nil
	}
	w.seen.Set(key, struct{}{})

	t, ok := w.tally[msg.Category]
	if !ok {
		t = &CategoryAlerts{Category: msg.Category}
		w.tally[msg.Category] = t
	}
	t.Count++
	t.Total = t.Total.Add(msg.Amount)
	if z := msg.ZScore.Abs(); z.GreaterThan(t.MaxZ) {
		t.MaxZ = z
	}
	count := t.Count
	w.mu.Unlock()

	w.logger.WarnContext(ctx, "Anomalous transaction",
		log.FieldOperation, log.OpConsume,
		log.FieldTransactionID, msg.TransactionID,
		log.FieldCategory, msg.Category,
		log.FieldAmount, msg.Amount.StringFixed(2),
		log.FieldDate, msg.Date,
		log.FieldZScore, msg.ZScore.StringFixed(2),
		"mean", msg.Mean.StringFixed(2),
		"std_dev", msg.StdDev.StringFixed(2),
		"category_alerts", count)
	return nil
}

// Summary returns the tallies ordered by category name.
func (w *AlertWorker) Summary() []CategoryAlerts {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]CategoryAlerts, 0, len(w.tally))
	for _, t := range w.tally {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
