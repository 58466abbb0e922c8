package mapper

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whummer/stripe-xero-sync/internal/config"
	"github.com/whummer/stripe-xero-sync/internal/domain/source"
)

func newTestMapper() *Mapper {
	return New(config.GetDefaultConfig().Xero)
}

func TestTaxType(t *testing.T) {
	m := newTestMapper()

	assert.Equal(t, "OUTPUT", m.TaxType("CH"))
	assert.Equal(t, "TAX010", m.TaxType("DE"))
	assert.Equal(t, "TAX010", m.TaxType("US"))
	assert.Equal(t, "TAX010", m.TaxType(""))
}

func TestMapInvoiceLinesPreservesConsistentQuantities(t *testing.T) {
	m := newTestMapper()

	items := m.MapInvoiceLines([]source.LineItem{
		{Description: "Pro plan", Quantity: 3, UnitAmount: lo.ToPtr(int64(500)), Amount: 1500},
	}, "fallback", "200", "OUTPUT")

	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "Pro plan", item.Description)
	require.NotNil(t, item.Quantity)
	require.NotNil(t, item.UnitAmount)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, item.UnitAmount.Equal(decimal.RequireFromString("5")))
	assert.True(t, item.LineAmount.Equal(decimal.RequireFromString("15")))
	assert.Equal(t, "200", item.AccountCode)
	assert.Equal(t, "OUTPUT", item.TaxType)
}

func TestMapInvoiceLinesCollapsesInconsistentQuantities(t *testing.T) {
	m := newTestMapper()

	// Prorated line: quantity times unit amount no longer matches the
	// line total, so the line collapses to its amount.
	items := m.MapInvoiceLines([]source.LineItem{
		{Quantity: 3, UnitAmount: lo.ToPtr(int64(500)), Amount: 1230},
	}, "fallback", "200", "OUTPUT")

	require.Len(t, items, 1)
	assert.Nil(t, items[0].Quantity)
	assert.Nil(t, items[0].UnitAmount)
	assert.True(t, items[0].LineAmount.Equal(decimal.RequireFromString("12.3")))
	assert.Equal(t, "fallback", items[0].Description)
}

func TestMapInvoiceLinesDropsZeroLines(t *testing.T) {
	m := newTestMapper()

	items := m.MapInvoiceLines([]source.LineItem{
		{Description: "Trial period", Quantity: 1, UnitAmount: lo.ToPtr(int64(0)), Amount: 0},
		{Description: "Paid", Amount: 900},
	}, "fallback", "200", "OUTPUT")

	require.Len(t, items, 1)
	assert.Equal(t, "Paid", items[0].Description)
}

func TestMapInvoiceLinesAppliesDiscountRate(t *testing.T) {
	m := newTestMapper()

	items := m.MapInvoiceLines([]source.LineItem{
		{Quantity: 1, UnitAmount: lo.ToPtr(int64(1000)), Amount: 1000, DiscountAmounts: []int64{100}},
	}, "fallback", "200", "OUTPUT")

	require.Len(t, items, 1)
	item := items[0]
	require.NotNil(t, item.DiscountRate)
	assert.True(t, item.DiscountRate.Equal(decimal.NewFromInt(10)))
	// 10.00 discounted by 10% comes out at 9.00.
	assert.True(t, item.LineAmount.Equal(decimal.RequireFromString("9")))
}

func TestMapContact(t *testing.T) {
	m := newTestMapper()

	contact := m.MapContact(&source.Customer{
		ID:    "cus_123",
		Name:  "Acme GmbH",
		Email: "billing@acme.example",
		Phone: "+41441234567",
		Address: &source.Address{
			Line1:      "Bahnhofstrasse 1",
			City:       "Zurich",
			PostalCode: "8001",
			Country:    "CH",
		},
	})

	assert.Equal(t, "Acme GmbH", contact.Name)
	assert.Equal(t, "billing@acme.example", contact.FirstName)
	assert.Equal(t, "undefined (cus_123)", contact.LastName)
	assert.Equal(t, "cus_123", contact.SourceCustomerID)
	assert.True(t, contact.IsCustomer)
	require.NotNil(t, contact.Address)
	assert.Equal(t, "CH", contact.Country())
}

func TestMapContactFallsBackToEmailName(t *testing.T) {
	m := newTestMapper()

	contact := m.MapContact(&source.Customer{ID: "cus_123", Email: "billing@acme.example"})
	assert.Equal(t, "billing@acme.example", contact.Name)

	contact = m.MapContact(&source.Customer{ID: "cus_123"})
	assert.Equal(t, "cus_123", contact.Name)
}
