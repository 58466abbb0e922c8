package stripe

import (
	"context"
	"iter"

	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v82"

	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// defaultPlanName is used when an invoice is not tied to a subscription
// plan, matching how one-off invoices are labeled.
const defaultPlanName = "Custom Invoice"

// ListInvoices yields enriched source invoices created within the
// window, newest first. Iteration stops at the first source error,
// which is fatal to the run; pacing and resumption are the driver's
// responsibility.
func (c *Client) ListInvoices(ctx context.Context, window types.Window) iter.Seq2[*source.Invoice, error] {
	return func(yield func(*source.Invoice, error) bool) {
		params := &stripe.InvoiceListParams{
			CreatedRange: &stripe.RangeQueryParams{
				GreaterThan: window.Start.Unix(),
				LesserThan:  window.End.Unix(),
			},
		}

		for inv, err := range c.sc.V1Invoices.List(ctx, params) {
			if err != nil {
				yield(nil, ierr.WithError(err).
					WithHint("Failed to list invoices from Stripe").
					Mark(ierr.ErrSourceUnavailable))
				return
			}

			converted, err := c.convertInvoice(ctx, inv)
			if !yield(converted, err) || err != nil {
				return
			}
		}
	}
}

func (c *Client) convertInvoice(ctx context.Context, inv *stripe.Invoice) (*source.Invoice, error) {
	out := &source.Invoice{
		ID:        inv.ID,
		Number:    inv.Number,
		Created:   types.FromEpoch(inv.Created),
		Total:     inv.Total,
		Currency:  string(inv.Currency),
		Paid:      inv.Status == stripe.InvoiceStatusPaid,
		HostedURL: inv.HostedInvoiceURL,
		Lines:     convertLines(inv),
	}
	if inv.Customer != nil {
		out.CustomerID = inv.Customer.ID
	}
	if inv.DueDate > 0 {
		out.DueDate = lo.ToPtr(types.FromEpoch(inv.DueDate))
	}
	if inv.StatusTransitions != nil && inv.StatusTransitions.PaidAt > 0 {
		out.PaidAt = lo.ToPtr(types.FromEpoch(inv.StatusTransitions.PaidAt))
	}

	planName, err := c.resolvePlanName(ctx, inv)
	if err != nil {
		return nil, err
	}
	out.PlanName = planName

	// The fee chain soft-fails to "no fee": a broken chain must not
	// block the invoice itself.
	out.Fee = c.resolveFee(ctx, inv)

	return out, nil
}

func convertLines(inv *stripe.Invoice) []source.LineItem {
	if inv.Lines == nil {
		return nil
	}

	lines := make([]source.LineItem, 0, len(inv.Lines.Data))
	for _, line := range inv.Lines.Data {
		item := source.LineItem{
			Description: line.Description,
			Quantity:    line.Quantity,
			Amount:      line.Amount,
		}
		if line.Pricing != nil && line.Pricing.UnitAmountDecimal != 0 {
			item.UnitAmount = lo.ToPtr(int64(line.Pricing.UnitAmountDecimal))
		}
		for _, discount := range line.DiscountAmounts {
			item.DiscountAmounts = append(item.DiscountAmounts, discount.Amount)
		}
		lines = append(lines, item)
	}
	return lines
}

// resolvePlanName resolves the subscription plan name via the cached
// subscription lookup.
func (c *Client) resolvePlanName(ctx context.Context, inv *stripe.Invoice) (string, error) {
	if inv.Parent == nil || inv.Parent.SubscriptionDetails == nil ||
		inv.Parent.SubscriptionDetails.Subscription == nil {
		return defaultPlanName, nil
	}

	sub, err := c.getSubscription(ctx, inv.Parent.SubscriptionDetails.Subscription.ID)
	if err != nil {
		return "", err
	}

	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item.Price != nil && item.Price.Nickname != "" {
				return item.Price.Nickname, nil
			}
		}
	}
	return defaultPlanName, nil
}

// resolveFee walks invoice payment -> charge -> balance transaction to
// find the processor fee. Any broken link yields no fee.
func (c *Client) resolveFee(ctx context.Context, inv *stripe.Invoice) *source.Fee {
	charge := c.feeCharge(ctx, inv)
	if charge == nil || charge.BalanceTransaction == nil {
		return nil
	}

	txn, err := c.sc.V1BalanceTransactions.Retrieve(ctx, charge.BalanceTransaction.ID, nil)
	if err != nil {
		c.logger.Warnw("failed to retrieve balance transaction, skipping fee",
			"invoice_id", inv.ID,
			"balance_transaction_id", charge.BalanceTransaction.ID,
			"error", err)
		return nil
	}
	if txn.Fee <= 0 {
		return nil
	}

	return &source.Fee{
		Amount:   txn.Fee,
		Currency: string(txn.Currency),
	}
}

func (c *Client) feeCharge(ctx context.Context, inv *stripe.Invoice) *stripe.Charge {
	chargeID := ""
	if inv.Payments != nil {
		for _, p := range inv.Payments.Data {
			if p.Payment != nil && p.Payment.Charge != nil {
				chargeID = p.Payment.Charge.ID
				break
			}
		}
	}

	if chargeID == "" {
		params := &stripe.InvoicePaymentListParams{
			Invoice: stripe.String(inv.ID),
		}
		for payment, err := range c.sc.V1InvoicePayments.List(ctx, params) {
			if err != nil {
				c.logger.Warnw("failed to list invoice payments, skipping fee",
					"invoice_id", inv.ID, "error", err)
				return nil
			}
			if payment.Payment != nil && payment.Payment.Charge != nil {
				chargeID = payment.Payment.Charge.ID
				break
			}
		}
	}

	if chargeID == "" {
		return nil
	}

	charge, err := c.getCharge(ctx, chargeID)
	if err != nil {
		c.logger.Warnw("failed to retrieve charge, skipping fee",
			"invoice_id", inv.ID, "charge_id", chargeID, "error", err)
		return nil
	}
	return charge
}
