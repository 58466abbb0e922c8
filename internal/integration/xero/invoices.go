package xero

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	goCache "github.com/patrickmn/go-cache"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// FindInvoice looks up an invoice of the given contact whose number or
// reference carries the source invoice key. Invoices per contact are
// fetched once per run and cached.
func (c *Client) FindInvoice(ctx context.Context, contactID, key string) (*ledger.Invoice, error) {
	invoices, err := c.listInvoices(ctx, contactID)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		if ledger.InvoiceMatchesKey(inv, key) {
			return inv, nil
		}
	}
	return nil, ierr.NewError("invoice not found").
		WithHintf("Contact %s has no invoice matching %s", contactID, key).
		Mark(ierr.ErrNotFound)
}

// CreateInvoice creates the invoice, retrying once with a short unique
// suffix on the invoice number when the destination rejects the number
// as already taken.
func (c *Client) CreateInvoice(ctx context.Context, inv *ledger.Invoice) (*ledger.Invoice, error) {
	created, err := c.postInvoice(ctx, inv)
	if ierr.IsSinkConflict(err) {
		retry := *inv
		retry.InvoiceNumber = fmt.Sprintf("%s-%s", inv.InvoiceNumber, types.GenerateShortID())
		c.logger.Warnw("invoice number already taken, retrying with suffixed number",
			"invoice_number", inv.InvoiceNumber,
			"retry_number", retry.InvoiceNumber)
		created, err = c.postInvoice(ctx, &retry)
		if ierr.IsSinkConflict(err) {
			return nil, ierr.WithError(err).
				WithHint("Invoice number conflict persisted after suffixing").
				Mark(ierr.ErrSinkUnavailable)
		}
	}
	if err != nil {
		return nil, err
	}
	c.appendInvoice(created)
	return created, nil
}

func (c *Client) postInvoice(ctx context.Context, inv *ledger.Invoice) (*ledger.Invoice, error) {
	body := invoicesEnvelope{Invoices: []invoiceDTO{toInvoiceDTO(inv)}}
	var resp invoicesEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/Invoices", nil, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Invoices) == 0 {
		return nil, ierr.NewError("invoice create returned no invoice").
			WithHintf("Invoice %s was not echoed back", inv.InvoiceNumber).
			Mark(ierr.ErrSinkUnavailable)
	}
	// Keep the request spec as the source of truth and only take over
	// server-assigned fields. The echo does not round-trip everything we
	// set, FullyPaidOnDate in particular.
	created := *inv
	created.ID = resp.Invoices[0].InvoiceID
	if number := resp.Invoices[0].InvoiceNumber; number != "" {
		created.InvoiceNumber = number
	}
	return &created, nil
}

func (c *Client) listInvoices(ctx context.Context, contactID string) ([]*ledger.Invoice, error) {
	if cached, ok := c.invoices.Get(contactID); ok {
		return cached.([]*ledger.Invoice), nil
	}
	query := url.Values{"ContactIDs": []string{contactID}}
	var resp invoicesEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/Invoices", query, nil, &resp); err != nil {
		return nil, err
	}
	invoices := make([]*ledger.Invoice, 0, len(resp.Invoices))
	for _, dto := range resp.Invoices {
		invoices = append(invoices, fromInvoiceDTO(dto))
	}
	c.invoices.Set(contactID, invoices, goCache.NoExpiration)
	return invoices, nil
}

func (c *Client) appendInvoice(inv *ledger.Invoice) {
	if cached, ok := c.invoices.Get(inv.ContactID); ok {
		c.invoices.Set(inv.ContactID, append(cached.([]*ledger.Invoice), inv), goCache.NoExpiration)
	}
}
