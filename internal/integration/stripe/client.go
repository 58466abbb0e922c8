// Package stripe implements the read-only ledger source adapter on top
// of the Stripe API.
package stripe

import (
	"context"

	goCache "github.com/patrickmn/go-cache"
	"github.com/stripe/stripe-go/v82"

	"github.com/whummer/stripe-xero-sync/internal/config"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/logger"
)

// Client wraps the Stripe API client together with the run-scoped read
// caches for subscriptions, charges and customers. The caches live as
// long as the Client instance, one run, and are never invalidated.
type Client struct {
	sc     *stripe.Client
	logger *logger.Logger

	subscriptions *goCache.Cache
	charges       *goCache.Cache
	customers     *goCache.Cache
}

// NewClient creates a new Stripe source adapter.
func NewClient(cfg config.StripeConfig, logger *logger.Logger) *Client {
	return &Client{
		sc:            stripe.NewClient(cfg.SecretKey, nil),
		logger:        logger,
		subscriptions: goCache.New(goCache.NoExpiration, 0),
		charges:       goCache.New(goCache.NoExpiration, 0),
		customers:     goCache.New(goCache.NoExpiration, 0),
	}
}

// getSubscription retrieves a subscription, serving repeated lookups
// for the same id from the run cache.
func (c *Client) getSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	if cached, ok := c.subscriptions.Get(id); ok {
		return cached.(*stripe.Subscription), nil
	}

	sub, err := c.sc.V1Subscriptions.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to retrieve subscription %s from Stripe", id).
			Mark(ierr.ErrSourceUnavailable)
	}

	c.subscriptions.Set(id, sub, goCache.NoExpiration)
	return sub, nil
}

// getCharge retrieves a charge, serving repeated lookups from the run
// cache.
func (c *Client) getCharge(ctx context.Context, id string) (*stripe.Charge, error) {
	if cached, ok := c.charges.Get(id); ok {
		return cached.(*stripe.Charge), nil
	}

	charge, err := c.sc.V1Charges.Retrieve(ctx, id, nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to retrieve charge %s from Stripe", id).
			Mark(ierr.ErrSourceUnavailable)
	}

	c.charges.Set(id, charge, goCache.NoExpiration)
	return charge, nil
}
