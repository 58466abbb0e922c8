package source

import (
	"context"
	"iter"

	"github.com/whummer/stripe-xero-sync/internal/types"
)

// Repository defines the read-only interface of the ledger source.
//
// The sequences are lazy and ordered newest-created-first. They are
// restartable only by re-invoking with a window, not resumable
// mid-page. Iteration errors are marked ErrSourceUnavailable and are
// fatal to the current run.
type Repository interface {
	// ListInvoices yields enriched invoices created within the window.
	ListInvoices(ctx context.Context, window types.Window) iter.Seq2[*Invoice, error]

	// ListRefunds yields enriched refunds created within the window.
	ListRefunds(ctx context.Context, window types.Window) iter.Seq2[*Refund, error]

	// GetCustomer retrieves a customer by id.
	GetCustomer(ctx context.Context, id string) (*Customer, error)
}
