package ledger

import "context"

// Repository defines the write interface of the ledger sink.
//
// Every creation follows the idempotent upsert contract: the caller
// finds by key first and only then creates, never blind-creates. Find
// methods return ErrNotFound when no entity matches. Create methods
// recover a uniqueness conflict with exactly one disambiguated retry
// and mark any other failure ErrSinkUnavailable.
type Repository interface {
	// FindContact looks up a contact by the encoded source customer id.
	FindContact(ctx context.Context, sourceCustomerID string) (*Contact, error)

	// CreateContact creates a contact and returns it with its assigned id.
	CreateContact(ctx context.Context, contact *Contact) (*Contact, error)

	// FindInvoice looks up a non-voided invoice of the contact whose
	// number or reference embeds the given key.
	FindInvoice(ctx context.Context, contactID, key string) (*Invoice, error)

	// CreateInvoice creates an invoice and returns it with its assigned
	// id and final (possibly suffixed) invoice number.
	CreateInvoice(ctx context.Context, invoice *Invoice) (*Invoice, error)

	// FindCreditNote looks up a credit note of the contact whose number
	// or reference embeds the given key.
	FindCreditNote(ctx context.Context, contactID, key string) (*CreditNote, error)

	// CreateCreditNote creates a credit note and returns it with its
	// assigned id and final number.
	CreateCreditNote(ctx context.Context, note *CreditNote) (*CreditNote, error)

	// CreateAllocation applies a credit note against an invoice.
	CreateAllocation(ctx context.Context, allocation *Allocation) error

	// CreatePayment records a settlement payment for an invoice or
	// credit note.
	CreatePayment(ctx context.Context, payment *Payment) error
}
