package types

import "github.com/shopspring/decimal"

// minorUnitFactor converts processor amounts (cents) to major currency units.
var minorUnitFactor = decimal.NewFromInt(100)

// FromMinorUnits converts an amount in minor units (e.g. cents) to a
// decimal amount in major units. All source amounts cross this exactly
// once, at the mapper boundary.
func FromMinorUnits(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(minorUnitFactor)
}

// Hundred is the percentage base used for discount rate math.
var Hundred = decimal.NewFromInt(100)
