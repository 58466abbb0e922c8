package stripe

import (
	"context"
	"iter"

	"github.com/stripe/stripe-go/v82"

	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// ListRefunds yields refunds created within the window, newest first,
// each enriched with the originating charge's customer and invoice
// reference.
func (c *Client) ListRefunds(ctx context.Context, window types.Window) iter.Seq2[*source.Refund, error] {
	return func(yield func(*source.Refund, error) bool) {
		params := &stripe.RefundListParams{
			CreatedRange: &stripe.RangeQueryParams{
				GreaterThan: window.Start.Unix(),
				LesserThan:  window.End.Unix(),
			},
		}

		for refund, err := range c.sc.V1Refunds.List(ctx, params) {
			if err != nil {
				yield(nil, ierr.WithError(err).
					WithHint("Failed to list refunds from Stripe").
					Mark(ierr.ErrSourceUnavailable))
				return
			}

			converted, err := c.convertRefund(ctx, refund)
			if !yield(converted, err) || err != nil {
				return
			}
		}
	}
}

func (c *Client) convertRefund(ctx context.Context, refund *stripe.Refund) (*source.Refund, error) {
	out := &source.Refund{
		ID:       refund.ID,
		Created:  types.FromEpoch(refund.Created),
		Amount:   refund.Amount,
		Currency: string(refund.Currency),
	}
	if refund.Charge == nil {
		return out, nil
	}
	out.ChargeID = refund.Charge.ID

	charge, err := c.getCharge(ctx, refund.Charge.ID)
	if err != nil {
		return nil, err
	}
	if charge.Customer != nil {
		out.CustomerID = charge.Customer.ID
	}
	out.InvoiceID = c.resolveChargeInvoice(ctx, charge)

	return out, nil
}

// resolveChargeInvoice finds the source invoice the charge settled, via
// the invoice payments index. An unresolvable link leaves the id empty;
// the mapper reports the inconsistency when the refund is processed.
func (c *Client) resolveChargeInvoice(ctx context.Context, charge *stripe.Charge) string {
	if charge.PaymentIntent == nil {
		return ""
	}

	params := &stripe.InvoicePaymentListParams{
		Payment: &stripe.InvoicePaymentListPaymentParams{
			PaymentIntent: stripe.String(charge.PaymentIntent.ID),
			Type:          stripe.String("payment_intent"),
		},
	}
	for payment, err := range c.sc.V1InvoicePayments.List(ctx, params) {
		if err != nil {
			c.logger.Warnw("failed to resolve invoice for charge",
				"charge_id", charge.ID, "error", err)
			return ""
		}
		if payment.Invoice != nil {
			return payment.Invoice.ID
		}
	}
	return ""
}
