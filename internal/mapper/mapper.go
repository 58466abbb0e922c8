// Package mapper holds the pure transformation logic from source
// billing records to destination ledger entities. Functions here do no
// I/O and are deterministic given their inputs; everything dynamic
// (lookups, caches, conflict handling) lives in the adapters.
package mapper

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/whummer/stripe-xero-sync/internal/config"
	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// Mapper derives destination entity specs from source records. Account
// codes and tax rate codes come from the configuration captured at
// construction.
type Mapper struct {
	xero config.XeroConfig
}

func New(xero config.XeroConfig) *Mapper {
	return &Mapper{xero: xero}
}

// TaxType selects the destination tax rate code for a contact country.
// Domestic contacts get the domestic rate code, everything else the
// generic non-domestic code. A two-way switch, not a tax table.
func (m *Mapper) TaxType(country string) string {
	if country == m.xero.DomesticCountry {
		return m.xero.DomesticTaxType
	}
	return m.xero.ForeignTaxType
}

// MapInvoiceLines normalizes source lines into destination line items.
//
// When a per-unit price exists and amount == quantity * unit amount the
// quantity and unit amount are preserved; otherwise the line collapses
// to a single implicit unit so the destination never recomputes a total
// that disagrees with the source by a rounding error. Lines whose
// amount and unit amount are both zero are dropped.
func (m *Mapper) MapInvoiceLines(lines []source.LineItem, description, accountCode, taxType string) []ledger.LineItem {
	items := make([]ledger.LineItem, 0, len(lines))
	for _, line := range lines {
		amount := types.FromMinorUnits(line.Amount)

		var quantity, unitAmount *decimal.Decimal
		if line.UnitAmount != nil && line.Quantity > 0 && line.Amount == line.Quantity*(*line.UnitAmount) {
			quantity = lo.ToPtr(decimal.NewFromInt(line.Quantity))
			unitAmount = lo.ToPtr(types.FromMinorUnits(*line.UnitAmount))
		}

		if amount.IsZero() && (unitAmount == nil || unitAmount.IsZero()) {
			continue
		}

		item := ledger.LineItem{
			Description: lo.CoalesceOrEmpty(line.Description, description),
			Quantity:    quantity,
			UnitAmount:  unitAmount,
			LineAmount:  amount,
			AccountCode: accountCode,
			TaxType:     taxType,
		}

		if discount := sumDiscounts(line.DiscountAmounts); discount > 0 && line.Amount > 0 {
			rate := decimal.NewFromInt(discount).
				Div(decimal.NewFromInt(line.Amount)).
				Mul(types.Hundred)
			item.DiscountRate = &rate
			item.LineAmount = item.LineAmount.Mul(types.Hundred.Sub(rate)).Div(types.Hundred)
		}

		items = append(items, item)
	}
	return items
}

func sumDiscounts(amounts []int64) int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}
	return total
}
