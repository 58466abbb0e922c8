package stripe

import (
	"context"

	goCache "github.com/patrickmn/go-cache"
	"github.com/stripe/stripe-go/v82"

	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
)

// GetCustomer retrieves a customer by id, serving repeated lookups from
// the run cache.
func (c *Client) GetCustomer(ctx context.Context, id string) (*source.Customer, error) {
	if cached, ok := c.customers.Get(id); ok {
		return cached.(*source.Customer), nil
	}

	customer, err := c.sc.V1Customers.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to retrieve customer %s from Stripe", id).
			Mark(ierr.ErrSourceUnavailable)
	}

	converted := convertCustomer(customer)
	c.customers.Set(id, converted, goCache.NoExpiration)
	return converted, nil
}

func convertCustomer(customer *stripe.Customer) *source.Customer {
	out := &source.Customer{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
		Phone: customer.Phone,
	}
	if customer.Address != nil {
		out.Address = &source.Address{
			Line1:      customer.Address.Line1,
			Line2:      customer.Address.Line2,
			City:       customer.Address.City,
			State:      customer.Address.State,
			PostalCode: customer.Address.PostalCode,
			Country:    customer.Address.Country,
		}
	}
	return out
}
