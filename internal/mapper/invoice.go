package mapper

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// MapInvoice builds the destination sales invoice spec for a source
// invoice. The invoice number carries the source's human-readable
// number (idempotency key) and the reference embeds the source id.
func (m *Mapper) MapInvoice(inv *source.Invoice, contact *ledger.Contact) *ledger.Invoice {
	taxType := m.TaxType(contact.Country())

	date := inv.Created
	dueDate := date
	if inv.DueDate != nil {
		dueDate = *inv.DueDate
	}

	return &ledger.Invoice{
		Type:            types.InvoiceTypeReceivable,
		ContactID:       contact.ID,
		LineItems:       m.MapInvoiceLines(inv.Lines, inv.PlanName, m.xero.SalesAccountCode, taxType),
		Currency:        strings.ToUpper(inv.Currency),
		Status:          types.InvoiceStatusAuthorised,
		Total:           types.FromMinorUnits(inv.Total),
		Date:            date,
		DueDate:         dueDate,
		FullyPaidOnDate: inv.PaidAt,
		InvoiceNumber:   lo.CoalesceOrEmpty(inv.Number, inv.ID),
		Reference:       ledger.InvoiceReference(inv.ID),
		URL:             inv.HostedURL,
	}
}

// MapFee builds the payable fee bill invoice for the processor fee of a
// source invoice, or nil when there is no fee. The bill is addressed to
// the configured processor contact and its number is derived from the
// sales invoice number.
func (m *Mapper) MapFee(inv *source.Invoice, sales *ledger.Invoice) *ledger.Invoice {
	if inv.Fee == nil || inv.Fee.Amount <= 0 {
		return nil
	}

	amount := types.FromMinorUnits(inv.Fee.Amount)
	currency := strings.ToUpper(lo.CoalesceOrEmpty(inv.Fee.Currency, inv.Currency))

	line := ledger.LineItem{
		Description: fmt.Sprintf("%s for invoice %s", ledger.FeeLabel, sales.InvoiceNumber),
		Quantity:    lo.ToPtr(decimal.NewFromInt(1)),
		UnitAmount:  &amount,
		LineAmount:  amount,
		AccountCode: m.xero.FeesAccountCode,
		TaxType:     m.xero.ExemptTaxType,
	}

	return &ledger.Invoice{
		Type:            types.InvoiceTypePayable,
		ContactID:       m.xero.StripeContactID,
		LineItems:       []ledger.LineItem{line},
		Currency:        currency,
		Status:          types.InvoiceStatusAuthorised,
		Total:           amount,
		Date:            sales.Date,
		DueDate:         sales.Date,
		FullyPaidOnDate: sales.FullyPaidOnDate,
		InvoiceNumber:   ledger.FeeInvoiceNumber(sales.InvoiceNumber),
		Reference:       ledger.FeeReference(inv.ID),
	}
}
