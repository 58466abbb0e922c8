package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

func testInvoiceSpec() *ledger.Invoice {
	return &ledger.Invoice{
		Type:          types.InvoiceTypeReceivable,
		ContactID:     "contact-1",
		InvoiceNumber: "INV-0003",
		Reference:     "Stripe invoice in_a",
		Currency:      "CHF",
		Status:        types.InvoiceStatusAuthorised,
		Date:          time.Date(2022, 6, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateInvoiceRetriesConflictWithSuffixedNumber(t *testing.T) {
	var posts int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/Invoices", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("Xero-Tenant-Id"))

		var req invoicesEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Invoices, 1)

		posts++
		if posts == 1 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, conflictBody, "Invoice # must be unique.")
			return
		}
		json.NewEncoder(w).Encode(invoicesEnvelope{Invoices: []invoiceDTO{{
			InvoiceID:     "xero-inv-1",
			InvoiceNumber: req.Invoices[0].InvoiceNumber,
		}}})
	}))

	created, err := client.CreateInvoice(context.Background(), testInvoiceSpec())
	require.NoError(t, err)
	assert.Equal(t, 2, posts)
	assert.Equal(t, "xero-inv-1", created.ID)
	assert.True(t, strings.HasPrefix(created.InvoiceNumber, "INV-0003-"))
	assert.Greater(t, len(created.InvoiceNumber), len("INV-0003-"))
}

func TestCreateInvoicePersistentConflictEscalates(t *testing.T) {
	var posts int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, conflictBody, "Invoice # must be unique.")
	}))

	_, err := client.CreateInvoice(context.Background(), testInvoiceSpec())
	require.Error(t, err)
	// Exactly one retry, then give up with the unavailable marker.
	assert.Equal(t, 2, posts)
	assert.True(t, ierr.IsSinkUnavailable(err))
}
