package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
)

func TestCreateContactRetriesConflictWithDisambiguatedName(t *testing.T) {
	var posts int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/Contacts", r.URL.Path)

		var req contactsEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contacts, 1)

		posts++
		if posts == 1 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, conflictBody, "The contact name must be unique across all active contacts.")
			return
		}
		dto := req.Contacts[0]
		dto.ContactID = "xero-contact-1"
		json.NewEncoder(w).Encode(contactsEnvelope{Contacts: []contactDTO{dto}})
	}))

	created, err := client.CreateContact(context.Background(), &ledger.Contact{
		Name:             "Acme GmbH",
		FirstName:        "billing@acme.example",
		LastName:         "undefined (cus_123)",
		IsCustomer:       true,
		SourceCustomerID: "cus_123",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, posts)
	assert.Equal(t, "xero-contact-1", created.ID)
	assert.Equal(t, "Acme GmbH (cus_123)", created.Name)
	assert.Equal(t, "cus_123", created.SourceCustomerID)
}
