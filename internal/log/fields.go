package log

import "fintrack/internal/core"

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldBackend     = "backend"
	FieldTxID        = "tx_id"
	FieldTxDate      = "tx_date"
	FieldPayee       = "payee"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldMilestone   = "milestone"
	FieldMonth       = "month"
	FieldPeriod      = "period"
	FieldInsights    = "insights"
	FieldProvider    = "provider"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentEngine     = "engine"
	ComponentInsights   = "insights"
	ComponentStorage    = "storage"
	ComponentExchange   = "exchange"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentSheets     = "sheets"
	ComponentBackend    = "backend"
	ComponentCLI        = "cli"
	ComponentStatements = "statements"
)

// Operations defines standard operation names
const (
	OpRecord     = "record"
	OpLoad       = "load"
	OpSave       = "save"
	OpRefresh    = "refresh"
	OpImport     = "import"
	OpExport     = "export"
	OpReset      = "reset"
	OpRoll       = "roll"
	OpPublish    = "publish"
	OpAppend     = "append"
	OpShutdown   = "shutdown"
	OpStartup    = "startup"
	OpStatements = "statements"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds the identifying fields of a ledger entry.
func (f LogFields) WithTransaction(tx core.Transaction) LogFields {
	f[FieldTxID] = tx.ID
	f[FieldTxDate] = tx.Date
	f[FieldPayee] = tx.Payee
	f[FieldCategory] = tx.Category
	f[FieldAmountCents] = core.Cents(tx.Amount)
	return f
}

// WithHTTP adds request and response fields.
func (f LogFields) WithHTTP(method, path string, statusCode int, durationMs int64) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
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
