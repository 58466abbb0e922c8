package testutil

import (
	"context"
	"iter"
	"sort"
	"sync"

	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/types"
)

// InMemorySourceRepository is an in-memory implementation of the
// source.Repository interface. Listings are yielded newest-first, the
// way the real adapter orders them.
type InMemorySourceRepository struct {
	mu        sync.Mutex
	invoices  []*source.Invoice
	refunds   []*source.Refund
	customers map[string]*source.Customer

	// ListErr, when set, is yielded instead of records to simulate an
	// unavailable source.
	ListErr error
	// CustomerLookups tallies GetCustomer calls so tests can assert
	// lookup caching.
	CustomerLookups int
}

// NewInMemorySourceRepository creates a new instance of InMemorySourceRepository
func NewInMemorySourceRepository() *InMemorySourceRepository {
	return &InMemorySourceRepository{
		customers: make(map[string]*source.Customer),
	}
}

// AddInvoice registers an invoice to be yielded by ListInvoices
func (r *InMemorySourceRepository) AddInvoice(inv *source.Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = append(r.invoices, inv)
}

// AddRefund registers a refund to be yielded by ListRefunds
func (r *InMemorySourceRepository) AddRefund(refund *source.Refund) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refunds = append(r.refunds, refund)
}

// AddCustomer registers a customer for GetCustomer lookups
func (r *InMemorySourceRepository) AddCustomer(customer *source.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer
}

// ListInvoices yields registered invoices created within the window,
// newest first.
func (r *InMemorySourceRepository) ListInvoices(ctx context.Context, window types.Window) iter.Seq2[*source.Invoice, error] {
	return func(yield func(*source.Invoice, error) bool) {
		if r.ListErr != nil {
			yield(nil, r.ListErr)
			return
		}
		r.mu.Lock()
		matched := make([]*source.Invoice, 0, len(r.invoices))
		for _, inv := range r.invoices {
			if window.Contains(inv.Created) {
				matched = append(matched, inv)
			}
		}
		r.mu.Unlock()
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].Created.After(matched[j].Created)
		})
		for _, inv := range matched {
			if !yield(inv, nil) {
				return
			}
		}
	}
}

// ListRefunds yields registered refunds created within the window,
// newest first.
func (r *InMemorySourceRepository) ListRefunds(ctx context.Context, window types.Window) iter.Seq2[*source.Refund, error] {
	return func(yield func(*source.Refund, error) bool) {
		if r.ListErr != nil {
			yield(nil, r.ListErr)
			return
		}
		r.mu.Lock()
		matched := make([]*source.Refund, 0, len(r.refunds))
		for _, refund := range r.refunds {
			if window.Contains(refund.Created) {
				matched = append(matched, refund)
			}
		}
		r.mu.Unlock()
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].Created.After(matched[j].Created)
		})
		for _, refund := range matched {
			if !yield(refund, nil) {
				return
			}
		}
	}
}

// GetCustomer retrieves a registered customer by id
func (r *InMemorySourceRepository) GetCustomer(ctx context.Context, id string) (*source.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CustomerLookups++
	customer, exists := r.customers[id]
	if !exists {
		return nil, ierr.NewError("customer not found").
			WithHintf("No customer with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return customer, nil
}
