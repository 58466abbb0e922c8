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

// FindCreditNote looks up a credit note of the given contact whose
// number or reference carries the source refund key.
func (c *Client) FindCreditNote(ctx context.Context, contactID, key string) (*ledger.CreditNote, error) {
	notes, err := c.listCreditNotes(ctx, contactID)
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		if ledger.CreditNoteMatchesKey(note, key) {
			return note, nil
		}
	}
	return nil, ierr.NewError("credit note not found").
		WithHintf("Contact %s has no credit note matching %s", contactID, key).
		Mark(ierr.ErrNotFound)
}

// CreateCreditNote creates the credit note, retrying once with a short
// unique suffix on the number when the destination rejects it as taken.
func (c *Client) CreateCreditNote(ctx context.Context, note *ledger.CreditNote) (*ledger.CreditNote, error) {
	created, err := c.postCreditNote(ctx, note)
	if ierr.IsSinkConflict(err) {
		retry := *note
		retry.Number = fmt.Sprintf("%s-%s", note.Number, types.GenerateShortID())
		c.logger.Warnw("credit note number already taken, retrying with suffixed number",
			"credit_note_number", note.Number,
			"retry_number", retry.Number)
		created, err = c.postCreditNote(ctx, &retry)
		if ierr.IsSinkConflict(err) {
			return nil, ierr.WithError(err).
				WithHint("Credit note number conflict persisted after suffixing").
				Mark(ierr.ErrSinkUnavailable)
		}
	}
	if err != nil {
		return nil, err
	}
	c.appendCreditNote(created)
	return created, nil
}

// CreateAllocation applies a credit note against the invoice it refunds.
func (c *Client) CreateAllocation(ctx context.Context, alloc *ledger.Allocation) error {
	body := allocationsEnvelope{Allocations: []allocationDTO{{
		Amount:  alloc.Amount,
		Date:    types.FormatDate(alloc.Date),
		Invoice: contactlessInvoiceRefDTO{InvoiceID: alloc.InvoiceID},
	}}}
	path := fmt.Sprintf("/CreditNotes/%s/Allocations", alloc.CreditNoteID)
	var resp allocationsEnvelope
	return c.doRequest(ctx, http.MethodPut, path, nil, body, &resp)
}

func (c *Client) postCreditNote(ctx context.Context, note *ledger.CreditNote) (*ledger.CreditNote, error) {
	body := creditNotesEnvelope{CreditNotes: []creditNoteDTO{toCreditNoteDTO(note)}}
	var resp creditNotesEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/CreditNotes", nil, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.CreditNotes) == 0 {
		return nil, ierr.NewError("credit note create returned no credit note").
			WithHintf("Credit note %s was not echoed back", note.Number).
			Mark(ierr.ErrSinkUnavailable)
	}
	created := *note
	created.ID = resp.CreditNotes[0].CreditNoteID
	if number := resp.CreditNotes[0].CreditNoteNumber; number != "" {
		created.Number = number
	}
	return &created, nil
}

func (c *Client) listCreditNotes(ctx context.Context, contactID string) ([]*ledger.CreditNote, error) {
	if cached, ok := c.creditNotes.Get(contactID); ok {
		return cached.([]*ledger.CreditNote), nil
	}
	// The credit notes endpoint has no ContactIDs shortcut, only a where
	// clause.
	query := url.Values{"where": []string{fmt.Sprintf("Contact.ContactID==Guid(%q)", contactID)}}
	var resp creditNotesEnvelope
	if err := c.doRequest(ctx, http.MethodGet, "/CreditNotes", query, nil, &resp); err != nil {
		return nil, err
	}
	notes := make([]*ledger.CreditNote, 0, len(resp.CreditNotes))
	for _, dto := range resp.CreditNotes {
		notes = append(notes, fromCreditNoteDTO(dto))
	}
	c.creditNotes.Set(contactID, notes, goCache.NoExpiration)
	return notes, nil
}

func (c *Client) appendCreditNote(note *ledger.CreditNote) {
	if cached, ok := c.creditNotes.Get(note.ContactID); ok {
		c.creditNotes.Set(note.ContactID, append(cached.([]*ledger.CreditNote), note), goCache.NoExpiration)
	}
}
