package xero

import (
	"context"
	"net/http"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// CreatePayment records a settlement against an invoice or credit note.
func (c *Client) CreatePayment(ctx context.Context, payment *ledger.Payment) error {
	dto := paymentDTO{
		Account: accountDTO{Code: payment.AccountCode},
		Date:    types.FormatDate(payment.Date),
		Amount:  payment.Amount,
	}
	switch {
	case payment.InvoiceID != "":
		dto.Invoice = &contactlessInvoiceRefDTO{InvoiceID: payment.InvoiceID}
	case payment.CreditNoteID != "":
		dto.CreditNote = &creditNoteRefDTO{CreditNoteID: payment.CreditNoteID}
	default:
		return ierr.NewError("payment references neither invoice nor credit note").
			Mark(ierr.ErrValidation)
	}
	body := paymentsEnvelope{Payments: []paymentDTO{dto}}
	var resp paymentsEnvelope
	return c.doRequest(ctx, http.MethodPut, "/Payments", nil, body, &resp)
}
