package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldMonth       = "month"
	FieldMember      = "member"
	FieldAccountID   = "account_id"
	FieldBudgetID    = "budget_id"
	FieldStatementID = "statement_id"
	FieldAmountCents = "amount_cents"
	FieldRows        = "rows"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentEvents    = "events"
	ComponentWorker    = "worker"
	ComponentExport    = "export"
	ComponentBlob      = "blob"
	ComponentCarryOver = "carry_over"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpCarry    = "carry"
	OpSnapshot = "snapshot"
	OpUpload   = "upload"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
