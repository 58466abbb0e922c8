package mapper

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

func testContact() *ledger.Contact {
	return &ledger.Contact{
		ID:               "contact-1",
		Name:             "Acme GmbH",
		SourceCustomerID: "cus_123",
		Address:          &ledger.Address{Country: "CH"},
	}
}

func testSourceInvoice() *source.Invoice {
	created := time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)
	paidAt := created.Add(time.Hour)
	return &source.Invoice{
		ID:         "in_123",
		Number:     "F8C52F50-0001",
		Created:    created,
		Total:      1500,
		Currency:   "chf",
		Paid:       true,
		PaidAt:     &paidAt,
		CustomerID: "cus_123",
		PlanName:   "Pro plan",
		Lines: []source.LineItem{
			{Quantity: 3, UnitAmount: lo.ToPtr(int64(500)), Amount: 1500},
		},
		HostedURL: "https://pay.example/in_123",
	}
}

func TestMapInvoice(t *testing.T) {
	m := newTestMapper()
	inv := testSourceInvoice()

	mapped := m.MapInvoice(inv, testContact())

	assert.Equal(t, types.InvoiceTypeReceivable, mapped.Type)
	assert.Equal(t, "contact-1", mapped.ContactID)
	assert.Equal(t, "CHF", mapped.Currency)
	assert.Equal(t, types.InvoiceStatusAuthorised, mapped.Status)
	assert.True(t, mapped.Total.Equal(decimal.RequireFromString("15")))
	assert.Equal(t, inv.Created, mapped.Date)
	// No explicit due date on the source invoice.
	assert.Equal(t, inv.Created, mapped.DueDate)
	require.NotNil(t, mapped.FullyPaidOnDate)
	assert.Equal(t, *inv.PaidAt, *mapped.FullyPaidOnDate)
	assert.Equal(t, "F8C52F50-0001", mapped.InvoiceNumber)
	assert.Equal(t, "Stripe invoice in_123", mapped.Reference)
	assert.Equal(t, "https://pay.example/in_123", mapped.URL)
	require.Len(t, mapped.LineItems, 1)
	assert.Equal(t, "OUTPUT", mapped.LineItems[0].TaxType)
	assert.Equal(t, "200", mapped.LineItems[0].AccountCode)
}

func TestMapInvoiceNumberFallsBackToID(t *testing.T) {
	m := newTestMapper()
	inv := testSourceInvoice()
	inv.Number = ""

	mapped := m.MapInvoice(inv, testContact())
	assert.Equal(t, "in_123", mapped.InvoiceNumber)
}

func TestMapInvoiceDueDate(t *testing.T) {
	m := newTestMapper()
	inv := testSourceInvoice()
	due := inv.Created.Add(14 * 24 * time.Hour)
	inv.DueDate = &due

	mapped := m.MapInvoice(inv, testContact())
	assert.Equal(t, due, mapped.DueDate)
}

func TestMapFee(t *testing.T) {
	m := newTestMapper()
	inv := testSourceInvoice()
	inv.Fee = &source.Fee{Amount: 75, Currency: "chf"}

	sales := m.MapInvoice(inv, testContact())
	sales.ID = "xero-inv-1"

	fee := m.MapFee(inv, sales)
	require.NotNil(t, fee)
	assert.Equal(t, types.InvoiceTypePayable, fee.Type)
	assert.Equal(t, "stripe-contact-placeholder", fee.ContactID)
	assert.Equal(t, "Stripe fee F8C52F50-0001", fee.InvoiceNumber)
	assert.Equal(t, "Stripe fee in_123", fee.Reference)
	assert.Equal(t, "CHF", fee.Currency)
	assert.True(t, fee.Total.Equal(decimal.RequireFromString("0.75")))
	require.Len(t, fee.LineItems, 1)
	assert.Equal(t, "404", fee.LineItems[0].AccountCode)
	assert.Equal(t, "EXEMPTINPUT", fee.LineItems[0].TaxType)
	require.NotNil(t, fee.FullyPaidOnDate)
}

func TestMapFeeWithoutFee(t *testing.T) {
	m := newTestMapper()
	inv := testSourceInvoice()

	sales := m.MapInvoice(inv, testContact())
	assert.Nil(t, m.MapFee(inv, sales))

	inv.Fee = &source.Fee{Amount: 0}
	assert.Nil(t, m.MapFee(inv, sales))
}

func TestMapFeeCurrencyFallsBackToInvoice(t *testing.T) {
	m := newTestMapper()
	inv := testSourceInvoice()
	inv.Fee = &source.Fee{Amount: 75}

	sales := m.MapInvoice(inv, testContact())
	fee := m.MapFee(inv, sales)
	require.NotNil(t, fee)
	assert.Equal(t, "CHF", fee.Currency)
}
