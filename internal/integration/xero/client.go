// Package xero implements the ledger sink adapter on top of the Xero
// Accounting API.
package xero

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	goCache "github.com/patrickmn/go-cache"

	"github.com/whummer/stripe-xero-sync/internal/config"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/logger"
)

// TokenSource supplies the bearer token for API calls. The OAuth
// browser flow, token refresh and on-disk caching belong to an external
// auth provider; the adapter only ever asks for a usable token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token, typically injected from the
// configuration.
type StaticTokenSource struct {
	token string
}

func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	return s.token, nil
}

// Client is the Xero sink adapter. It owns the run-scoped read caches
// for contacts, invoices and credit notes; cache entries are appended
// on every successful create and never invalidated, which is safe
// because the caches do not outlive a run.
type Client struct {
	http     *http.Client
	baseURL  string
	tenantID string
	tokens   TokenSource
	cfg      config.XeroConfig
	logger   *logger.Logger

	contacts    *goCache.Cache
	invoices    *goCache.Cache
	creditNotes *goCache.Cache
}

// NewClient creates a new Xero sink adapter. Transient 429/5xx
// responses are retried by the underlying transport with backoff;
// everything that still fails surfaces as a tagged sink error.
func NewClient(cfg config.XeroConfig, tokens TokenSource, logger *logger.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = cfg.RequestTimeout

	return &Client{
		http:        retryClient.StandardClient(),
		baseURL:     cfg.BaseURL,
		tenantID:    cfg.TenantID,
		tokens:      tokens,
		cfg:         cfg,
		logger:      logger,
		contacts:    goCache.New(goCache.NoExpiration, 0),
		invoices:    goCache.New(goCache.NoExpiration, 0),
		creditNotes: goCache.New(goCache.NoExpiration, 0),
	}
}

// doRequest performs one API call and decodes the response into out.
// Failures are mapped to the sink taxonomy: uniqueness violations to
// ErrSinkConflict, everything else to ErrSinkUnavailable.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to encode request payload").
				Mark(ierr.ErrSinkUnavailable)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to build sink request").
			Mark(ierr.ErrSinkUnavailable)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to obtain sink access token").
			Mark(ierr.ErrSinkUnavailable)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Xero-Tenant-Id", c.tenantID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Request to ledger sink failed: %s %s", method, path).
			Mark(ierr.ErrSinkUnavailable)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read sink response").
			Mark(ierr.ErrSinkUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapAPIError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to decode sink response: %s %s", method, path).
				Mark(ierr.ErrSinkUnavailable)
		}
	}
	return nil
}
