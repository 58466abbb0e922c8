package xero

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	goCache "github.com/patrickmn/go-cache"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
)

const (
	contactsCacheKey = "contacts"
	contactsPageSize = 100
)

// FindContact looks up the contact carrying the given source customer id
// in its last-name encoding. The full contact list is fetched once per
// run and cached.
func (c *Client) FindContact(ctx context.Context, sourceCustomerID string) (*ledger.Contact, error) {
	contacts, err := c.listContacts(ctx)
	if err != nil {
		return nil, err
	}
	for _, contact := range contacts {
		if ledger.ContactMatches(contact, sourceCustomerID) {
			return contact, nil
		}
	}
	return nil, ierr.NewError("contact not found").
		WithHintf("No contact references source customer %s", sourceCustomerID).
		Mark(ierr.ErrNotFound)
}

// CreateContact creates the contact, retrying once with a disambiguated
// name when the destination rejects the name as already taken.
func (c *Client) CreateContact(ctx context.Context, contact *ledger.Contact) (*ledger.Contact, error) {
	created, err := c.postContact(ctx, contact)
	if ierr.IsSinkConflict(err) {
		retry := *contact
		retry.Name = fmt.Sprintf("%s %s", contact.Name, ledger.ContactKey(contact.SourceCustomerID))
		c.logger.Warnw("contact name already taken, retrying with disambiguated name",
			"name", contact.Name,
			"retry_name", retry.Name)
		created, err = c.postContact(ctx, &retry)
		if ierr.IsSinkConflict(err) {
			return nil, ierr.WithError(err).
				WithHint("Contact name conflict persisted after disambiguation").
				Mark(ierr.ErrSinkUnavailable)
		}
	}
	if err != nil {
		return nil, err
	}
	created.SourceCustomerID = contact.SourceCustomerID
	c.appendContact(created)
	return created, nil
}

func (c *Client) postContact(ctx context.Context, contact *ledger.Contact) (*ledger.Contact, error) {
	body := contactsEnvelope{Contacts: []contactDTO{toContactDTO(contact)}}
	var resp contactsEnvelope
	if err := c.doRequest(ctx, http.MethodPost, "/Contacts", nil, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Contacts) == 0 {
		return nil, ierr.NewError("contact create returned no contact").
			WithHintf("Contact %s was not echoed back", contact.Name).
			Mark(ierr.ErrSinkUnavailable)
	}
	return fromContactDTO(resp.Contacts[0]), nil
}

func (c *Client) listContacts(ctx context.Context) ([]*ledger.Contact, error) {
	if cached, ok := c.contacts.Get(contactsCacheKey); ok {
		return cached.([]*ledger.Contact), nil
	}
	var all []*ledger.Contact
	for page := 1; ; page++ {
		query := url.Values{"page": []string{strconv.Itoa(page)}}
		var resp contactsEnvelope
		if err := c.doRequest(ctx, http.MethodGet, "/Contacts", query, nil, &resp); err != nil {
			return nil, err
		}
		for _, dto := range resp.Contacts {
			all = append(all, fromContactDTO(dto))
		}
		if len(resp.Contacts) < contactsPageSize {
			break
		}
	}
	c.contacts.Set(contactsCacheKey, all, goCache.NoExpiration)
	return all, nil
}

func (c *Client) appendContact(contact *ledger.Contact) {
	if cached, ok := c.contacts.Get(contactsCacheKey); ok {
		c.contacts.Set(contactsCacheKey, append(cached.([]*ledger.Contact), contact), goCache.NoExpiration)
	}
}
