package types

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) Validate() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

// InvoiceType distinguishes receivable from payable ledger invoices
type InvoiceType string

const (
	// InvoiceTypeReceivable is a sales invoice (money owed to us)
	InvoiceTypeReceivable InvoiceType = "ACCREC"
	// InvoiceTypePayable is a bill invoice (money we owe), used for processor fees
	InvoiceTypePayable InvoiceType = "ACCPAY"
)

// InvoiceStatus represents the lifecycle status of a ledger invoice
type InvoiceStatus string

const (
	InvoiceStatusAuthorised InvoiceStatus = "AUTHORISED"
	InvoiceStatusPaid       InvoiceStatus = "PAID"
	InvoiceStatusVoided     InvoiceStatus = "VOIDED"
)

// CreditNoteType is the ledger credit note type for customer refunds
type CreditNoteType string

const (
	CreditNoteTypeReceivable CreditNoteType = "ACCRECCREDIT"
)

// RecordOutcome is the terminal state of one record in the migration
// state machine: Fetched -> FilteredOut | Skipped | Mapped -> Submitted -> Recorded.
type RecordOutcome string

const (
	// RecordOutcomeFilteredOut means the record failed an eligibility predicate
	RecordOutcomeFilteredOut RecordOutcome = "filtered_out"
	// RecordOutcomeSkipped means the record id was already in the migrated set
	RecordOutcomeSkipped RecordOutcome = "skipped"
	// RecordOutcomeRecorded means the record was submitted and its id persisted
	RecordOutcomeRecorded RecordOutcome = "recorded"
	// RecordOutcomeInconsistent means the record referenced a destination entity
	// that could not be located and was left for manual reconciliation
	RecordOutcomeInconsistent RecordOutcome = "inconsistent"
)
