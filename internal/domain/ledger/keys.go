package ledger

import (
	"fmt"
	"strings"

	"github.com/whummer/stripe-xero-sync/internal/types"
)

// Idempotency keys are derived strings embedded in natural-language
// fields of destination entities. They are the sole mechanism for
// detecting prior creation on the destination side.

// FeeLabel prefixes fee bill invoice numbers and references.
const FeeLabel = "Stripe fee"

// ContactKey returns the token encoded into a contact's last name.
func ContactKey(sourceCustomerID string) string {
	return fmt.Sprintf("(%s)", sourceCustomerID)
}

// EncodeContactLastName builds the last-name smear field for a new
// contact. The source has no usable first/last name split, so the slot
// carries the lookup key.
func EncodeContactLastName(sourceCustomerID string) string {
	return fmt.Sprintf("undefined %s", ContactKey(sourceCustomerID))
}

// ContactMatches reports whether an existing contact encodes the given
// source customer id.
func ContactMatches(c *Contact, sourceCustomerID string) bool {
	return c != nil && strings.HasSuffix(c.LastName, ContactKey(sourceCustomerID))
}

// InvoiceReference builds the reference string embedding the source
// invoice id.
func InvoiceReference(sourceInvoiceID string) string {
	return fmt.Sprintf("Stripe invoice %s", sourceInvoiceID)
}

// FeeReference builds the reference string for a fee bill invoice.
func FeeReference(sourceInvoiceID string) string {
	return fmt.Sprintf("%s %s", FeeLabel, sourceInvoiceID)
}

// FeeInvoiceNumber derives the fee bill invoice number from the sales
// invoice it belongs to.
func FeeInvoiceNumber(salesInvoiceNumber string) string {
	return fmt.Sprintf("%s %s", FeeLabel, salesInvoiceNumber)
}

// CreditNoteReference builds the reference string embedding the source
// refund id.
func CreditNoteReference(sourceRefundID string) string {
	return fmt.Sprintf("Stripe refund %s", sourceRefundID)
}

// InvoiceMatchesKey reports whether an existing invoice was created for
// the given key. Voided invoices never match: a voided duplicate must
// not suppress recreation. The key matches either as a prefix of the
// invoice number (conflict retries append a suffix) or as a substring
// of the reference (refund lookups only know the source invoice id).
func InvoiceMatchesKey(inv *Invoice, key string) bool {
	if inv == nil || key == "" || inv.Status == types.InvoiceStatusVoided {
		return false
	}
	return strings.HasPrefix(inv.InvoiceNumber, key) || strings.Contains(inv.Reference, key)
}

// CreditNoteMatchesKey reports whether an existing credit note was
// created for the given source refund id.
func CreditNoteMatchesKey(cn *CreditNote, key string) bool {
	if cn == nil || key == "" || cn.Status == types.InvoiceStatusVoided {
		return false
	}
	return strings.HasPrefix(cn.Number, key) || strings.Contains(cn.Reference, key)
}
