package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/whummer/stripe-xero-sync/internal/types"
)

// Contact is a destination ledger contact. The source customer id is
// encoded into the last-name field; that encoding is the idempotency
// key for contact lookup since the two systems share no transaction.
type Contact struct {
	ID   string
	Name string
	// FirstName stores the customer email. The real email field is left
	// empty on purpose so the destination system never mails customers.
	FirstName string
	// LastName embeds the source customer id, e.g. "undefined (cus_123)".
	LastName   string
	Phone      string
	Address    *Address
	IsCustomer bool
	// SourceCustomerID is the id encoded into LastName, kept separately
	// so adapters can derive fallback names without re-parsing the
	// smear field. Never sent to the destination as its own field.
	SourceCustomerID string
}

type Address struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// Country returns the contact's address country, empty when unknown.
func (c *Contact) Country() string {
	if c == nil || c.Address == nil {
		return ""
	}
	return c.Address.Country
}

// LineItem is one destination invoice or credit note line. Quantity and
// UnitAmount are nil when the source line collapsed to a single
// implicit unit.
type LineItem struct {
	Description  string
	Quantity     *decimal.Decimal
	UnitAmount   *decimal.Decimal
	LineAmount   decimal.Decimal
	AccountCode  string
	TaxType      string
	DiscountRate *decimal.Decimal
}

// Invoice is a destination ledger invoice, either a receivable sales
// invoice or a payable fee bill.
type Invoice struct {
	ID        string
	Type      types.InvoiceType
	ContactID string
	LineItems []LineItem
	Currency  string
	Status    types.InvoiceStatus
	Total     decimal.Decimal
	Date      time.Time
	DueDate   time.Time
	// FullyPaidOnDate is set when the source invoice was paid; it also
	// gates payment creation.
	FullyPaidOnDate *time.Time
	// InvoiceNumber embeds the source invoice number/id (idempotency key).
	InvoiceNumber string
	// Reference embeds the source invoice id.
	Reference string
	URL       string
}

// Paid reports whether a payment should be recorded for this invoice.
func (i *Invoice) Paid() bool {
	return i.FullyPaidOnDate != nil
}

// CreditNote is the destination entity for a source refund.
type CreditNote struct {
	ID        string
	Type      types.CreditNoteType
	ContactID string
	// Number embeds the source refund id (idempotency key).
	Number    string
	Reference string
	Currency  string
	Status    types.InvoiceStatus
	Date      time.Time
	Total     decimal.Decimal
	LineItems []LineItem
}

// Allocation links a credit note to the original destination invoice it
// offsets.
type Allocation struct {
	CreditNoteID string
	InvoiceID    string
	Amount       decimal.Decimal
	Date         time.Time
}

// Payment links a destination invoice or credit note to the settlement
// account; the amount equals the linked entity's total. Exactly one of
// InvoiceID and CreditNoteID is set.
type Payment struct {
	InvoiceID    string
	CreditNoteID string
	AccountCode  string
	Amount       decimal.Decimal
	Currency     string
	Date         time.Time
}
