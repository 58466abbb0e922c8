package mapper

import (
	"fmt"
	"strings"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// MapRefund builds the credit note and the allocation linking it to the
// previously created destination invoice for the refunded source
// invoice. The original invoice is resolved by the caller via its
// idempotency key, never from local state; when it cannot be found the
// refund cannot be mapped and the error is marked as a mapping
// inconsistency so the driver skips the record with a warning.
func (m *Mapper) MapRefund(refund *source.Refund, contact *ledger.Contact, original *ledger.Invoice) (*ledger.CreditNote, *ledger.Allocation, error) {
	if original == nil {
		return nil, nil, ierr.NewError("destination invoice for refund not found").
			WithHintf("Refund %s references source invoice %s with no destination counterpart", refund.ID, refund.InvoiceID).
			Mark(ierr.ErrMappingInconsistency)
	}

	total := types.FromMinorUnits(refund.Amount)
	taxType := m.TaxType(contact.Country())

	note := &ledger.CreditNote{
		Type:      types.CreditNoteTypeReceivable,
		ContactID: contact.ID,
		Number:    refund.ID,
		Reference: ledger.CreditNoteReference(refund.ID),
		Currency:  strings.ToUpper(refund.Currency),
		Status:    types.InvoiceStatusAuthorised,
		Date:      refund.Created,
		Total:     total,
		LineItems: []ledger.LineItem{
			{
				Description: fmt.Sprintf("Refund for invoice %s", original.InvoiceNumber),
				LineAmount:  total,
				AccountCode: m.xero.SalesAccountCode,
				TaxType:     taxType,
			},
		},
	}

	allocation := &ledger.Allocation{
		InvoiceID: original.ID,
		Amount:    total,
		Date:      refund.Created,
	}

	return note, allocation, nil
}
