package xero

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/whummer/stripe-xero-sync/internal/config"
	"github.com/whummer/stripe-xero-sync/internal/logger"
)

const conflictBody = `{
	"ErrorNumber": 10,
	"Type": "ValidationException",
	"Message": "A validation exception occurred",
	"Elements": [
		{"ValidationErrors": [{"Message": "%s"}]}
	]
}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.GetDefaultConfig().Xero
	cfg.BaseURL = server.URL
	return NewClient(cfg, NewStaticTokenSource("test-token"), logger.NewNopLogger())
}
