package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldSessionID     = "session_id"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldDate          = "date"
	FieldBudget        = "budget"
	FieldZScore        = "z_score"
	FieldRevision      = "revision"
	FieldView          = "view"
	FieldCacheHit      = "cache_hit"
	FieldExchange      = "exchange"
	FieldQueue         = "queue"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentAnalyzer = "analyzer"
	ComponentConsole  = "console"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
)

// Operations defines standard operation names
const (
	OpAddTransaction = "add_transaction"
	OpAddCategory    = "add_category"
	OpSetBudget      = "set_budget"
	OpDashboard      = "dashboard"
	OpAnalysis       = "analysis"
	OpAnomalies      = "anomalies"
	OpReport         = "report"
	OpPublish        = "publish"
	OpConsume        = "consume"
	OpStartup        = "startup"
	OpShutdown       = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error message when err is not nil.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithTransaction adds transaction related fields.
func (f LogFields) WithTransaction(id int, category string, amount decimal.Decimal, date string) LogFields {
	f[FieldTransactionID] = id
	f[FieldCategory] = category
	f[FieldAmount] = amount.String()
	f[FieldDate] = date
	return f
}

func (f LogFields) WithCategory(name string, budget decimal.Decimal) LogFields {
	f[FieldCategory] = name
	f[FieldBudget] = budget.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
