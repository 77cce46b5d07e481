package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldMonth      = "month"
	FieldRevision   = "revision"
	FieldCategoryID = "category_id"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldCurrency   = "currency"
	FieldCount      = "count"
	FieldPath       = "path"
	FieldInstitute  = "institution"
	FieldAccountID  = "account_id"
	FieldDuration   = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentConfig = "config"
	ComponentLedger = "ledger"
	ComponentReport = "report"
	ComponentSeed   = "seed"
	ComponentBank   = "bank"
	ComponentCache  = "cache"
)

// Operations defines standard operation names
const (
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpImport     = "import"
	OpRender     = "render"
	OpConnect    = "connect"
	OpDisconnect = "disconnect"
	OpValidate   = "validate"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
	ErrorTypeTimeout       = "timeout_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType tags the error category
func (f LogFields) WithErrorType(errorType string) LogFields {
	f[FieldErrorType] = errorType
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMonth adds the displayed month and ledger revision
func (f LogFields) WithMonth(month string, revision int64) LogFields {
	f[FieldMonth] = month
	f[FieldRevision] = revision
	return f
}

// WithCategory adds category fields, skipping unknown ones
func (f LogFields) WithCategory(id, name string) LogFields {
	if id != "" {
		f[FieldCategoryID] = id
	}
	if name != "" {
		f[FieldCategory] = name
	}
	return f
}

// WithAmount adds a display amount and its currency
func (f LogFields) WithAmount(amount, currency string) LogFields {
	f[FieldAmount] = amount
	f[FieldCurrency] = currency
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
