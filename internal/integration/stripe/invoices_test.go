package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func TestConvertLines(t *testing.T) {
	inv := &stripe.Invoice{
		Lines: &stripe.InvoiceLineItemList{
			Data: []*stripe.InvoiceLineItem{
				{
					Description: "Pro plan",
					Quantity:    3,
					Amount:      1500,
					Pricing:     &stripe.InvoiceLineItemPricing{UnitAmountDecimal: 500},
					DiscountAmounts: []*stripe.InvoiceLineItemDiscountAmount{
						{Amount: 100},
						{Amount: 50},
					},
				},
				{
					Description: "Proration",
					Quantity:    1,
					Amount:      -230,
				},
			},
		},
	}

	lines := convertLines(inv)
	require.Len(t, lines, 2)

	assert.Equal(t, "Pro plan", lines[0].Description)
	assert.Equal(t, int64(3), lines[0].Quantity)
	require.NotNil(t, lines[0].UnitAmount)
	assert.Equal(t, int64(500), *lines[0].UnitAmount)
	assert.Equal(t, int64(1500), lines[0].Amount)
	assert.Equal(t, []int64{100, 50}, lines[0].DiscountAmounts)

	assert.Nil(t, lines[1].UnitAmount)
	assert.Equal(t, int64(-230), lines[1].Amount)
}

func TestConvertLinesNilList(t *testing.T) {
	assert.Nil(t, convertLines(&stripe.Invoice{}))
}
