package source

import "time"

// Customer is a payment-processor customer, resolved on demand when a
// destination contact has to be created.
type Customer struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address *Address
}

type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// LineItem is one line of a source invoice. All amounts are in minor
// units; conversion to major units happens in the mapper.
type LineItem struct {
	Description string
	Quantity    int64
	// UnitAmount is the per-unit price in minor units, nil when the
	// source line has no per-unit price.
	UnitAmount *int64
	// Amount is the line total in minor units.
	Amount int64
	// DiscountAmounts are the discounts applied to this line, in minor units.
	DiscountAmounts []int64
}

// Invoice is a source invoice enriched by the adapter with the
// subscription plan name and the processor fee.
type Invoice struct {
	ID         string
	Number     string
	Created    time.Time
	Total      int64
	Currency   string
	Paid       bool
	PaidAt     *time.Time
	CustomerID string
	PlanName   string
	Lines      []LineItem
	Fee        *Fee
	HostedURL  string
	DueDate    *time.Time
}

// Fee is the processor fee attached to a paid invoice, resolved via the
// charge and balance-transaction chain.
type Fee struct {
	Amount   int64
	Currency string
}

// Refund is a source refund enriched with the originating charge's
// customer and invoice reference.
type Refund struct {
	ID       string
	Created  time.Time
	Amount   int64
	Currency string
	ChargeID string
	// CustomerID and InvoiceID come from the originating charge. Either
	// may be empty when the chain is broken; the mapper treats that as a
	// cross-system inconsistency.
	CustomerID string
	InvoiceID  string
}
