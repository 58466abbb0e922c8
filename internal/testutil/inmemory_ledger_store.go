package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// InMemoryLedgerRepository is an in-memory implementation of the
// ledger.Repository interface. It enforces the destination's
// uniqueness rules (contact names, invoice numbers, credit note
// numbers) so conflict handling can be exercised without a live
// destination.
type InMemoryLedgerRepository struct {
	mu          sync.Mutex
	contacts    []*ledger.Contact
	invoices    []*ledger.Invoice
	creditNotes []*ledger.CreditNote
	allocations []*ledger.Allocation
	payments    []*ledger.Payment
}

// NewInMemoryLedgerRepository creates a new instance of InMemoryLedgerRepository
func NewInMemoryLedgerRepository() *InMemoryLedgerRepository {
	return &InMemoryLedgerRepository{}
}

// SeedContact registers a pre-existing contact
func (r *InMemoryLedgerRepository) SeedContact(contact *ledger.Contact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, contact)
}

// SeedInvoice registers a pre-existing invoice
func (r *InMemoryLedgerRepository) SeedInvoice(inv *ledger.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = append(r.invoices, inv)
}

// Contacts returns all stored contacts
func (r *InMemoryLedgerRepository) Contacts() []*ledger.Contact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ledger.Contact(nil), r.contacts...)
}

// Invoices returns all stored invoices
func (r *InMemoryLedgerRepository) Invoices() []*ledger.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ledger.Invoice(nil), r.invoices...)
}

// CreditNotes returns all stored credit notes
func (r *InMemoryLedgerRepository) CreditNotes() []*ledger.CreditNote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ledger.CreditNote(nil), r.creditNotes...)
}

// Allocations returns all stored allocations
func (r *InMemoryLedgerRepository) Allocations() []*ledger.Allocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ledger.Allocation(nil), r.allocations...)
}

// Payments returns all stored payments
func (r *InMemoryLedgerRepository) Payments() []*ledger.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*ledger.Payment(nil), r.payments...)
}

// FindContact looks up a contact by the encoded source customer id
func (r *InMemoryLedgerRepository) FindContact(ctx context.Context, sourceCustomerID string) (*ledger.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, contact := range r.contacts {
		if ledger.ContactMatches(contact, sourceCustomerID) {
			return contact, nil
		}
	}
	return nil, ierr.NewError("contact not found").
		WithHintf("No contact references source customer %s", sourceCustomerID).
		Mark(ierr.ErrNotFound)
}

// CreateContact creates a contact, retrying once with a disambiguated
// name on a name collision the way the real adapter does.
func (r *InMemoryLedgerRepository) CreateContact(ctx context.Context, contact *ledger.Contact) (*ledger.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *contact
	if r.contactNameTaken(created.Name) {
		created.Name = fmt.Sprintf("%s %s", contact.Name, ledger.ContactKey(contact.SourceCustomerID))
		if r.contactNameTaken(created.Name) {
			return nil, conflictError("contact name", created.Name)
		}
	}
	created.ID = types.GenerateUUID()
	r.contacts = append(r.contacts, &created)
	return &created, nil
}

// FindInvoice looks up a non-voided invoice of the contact by key
func (r *InMemoryLedgerRepository) FindInvoice(ctx context.Context, contactID, key string) (*ledger.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, inv := range r.invoices {
		if inv.ContactID == contactID && ledger.InvoiceMatchesKey(inv, key) {
			return inv, nil
		}
	}
	return nil, ierr.NewError("invoice not found").
		WithHintf("Contact %s has no invoice matching %s", contactID, key).
		Mark(ierr.ErrNotFound)
}

// CreateInvoice creates an invoice, suffixing the number once on a
// number collision the way the real adapter does.
func (r *InMemoryLedgerRepository) CreateInvoice(ctx context.Context, inv *ledger.Invoice) (*ledger.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *inv
	if r.invoiceNumberTaken(created.InvoiceNumber) {
		created.InvoiceNumber = fmt.Sprintf("%s-%s", inv.InvoiceNumber, types.GenerateShortID())
		if r.invoiceNumberTaken(created.InvoiceNumber) {
			return nil, conflictError("invoice number", created.InvoiceNumber)
		}
	}
	created.ID = types.GenerateUUID()
	r.invoices = append(r.invoices, &created)
	return &created, nil
}

// FindCreditNote looks up a credit note of the contact by key
func (r *InMemoryLedgerRepository) FindCreditNote(ctx context.Context, contactID, key string) (*ledger.CreditNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, note := range r.creditNotes {
		if note.ContactID == contactID && ledger.CreditNoteMatchesKey(note, key) {
			return note, nil
		}
	}
	return nil, ierr.NewError("credit note not found").
		WithHintf("Contact %s has no credit note matching %s", contactID, key).
		Mark(ierr.ErrNotFound)
}

// CreateCreditNote creates a credit note, suffixing the number once on
// a number collision.
func (r *InMemoryLedgerRepository) CreateCreditNote(ctx context.Context, note *ledger.CreditNote) (*ledger.CreditNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *note
	if r.creditNoteNumberTaken(created.Number) {
		created.Number = fmt.Sprintf("%s-%s", note.Number, types.GenerateShortID())
		if r.creditNoteNumberTaken(created.Number) {
			return nil, conflictError("credit note number", created.Number)
		}
	}
	created.ID = types.GenerateUUID()
	r.creditNotes = append(r.creditNotes, &created)
	return &created, nil
}

// CreateAllocation records an allocation
func (r *InMemoryLedgerRepository) CreateAllocation(ctx context.Context, allocation *ledger.Allocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *allocation
	r.allocations = append(r.allocations, &copied)
	return nil
}

// CreatePayment records a payment
func (r *InMemoryLedgerRepository) CreatePayment(ctx context.Context, payment *ledger.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *payment
	r.payments = append(r.payments, &copied)
	return nil
}

func (r *InMemoryLedgerRepository) contactNameTaken(name string) bool {
	for _, contact := range r.contacts {
		if contact.Name == name {
			return true
		}
	}
	return false
}

func (r *InMemoryLedgerRepository) invoiceNumberTaken(number string) bool {
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == number {
			return true
		}
	}
	return false
}

func (r *InMemoryLedgerRepository) creditNoteNumberTaken(number string) bool {
	for _, note := range r.creditNotes {
		if note.Number == number {
			return true
		}
	}
	return false
}

func conflictError(field, value string) error {
	return ierr.NewError("uniqueness violation").
		WithHintf("The %s %s is already taken", field, value).
		Mark(ierr.ErrSinkConflict)
}
