package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
)

func TestValidateDefaultConfig(t *testing.T) {
	assert.NoError(t, GetDefaultConfig().Validate())
}

func TestValidateMissingRequiredValues(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Stripe.SecretKey = ""
	cfg.Xero.TenantID = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsConfiguration(err))
}

func TestValidateBadDates(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Migration.StartDate = "01.06.2022"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsConfiguration(err))

	cfg = GetDefaultConfig()
	cfg.Migration.StartDate = "2022-12-31"
	cfg.Migration.EndDate = "2022-01-01"
	err = cfg.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsConfiguration(err))
}

func TestValidateInvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsConfiguration(err))
}

func TestBounds(t *testing.T) {
	cfg := GetDefaultConfig()
	start, err := cfg.Migration.StartBound()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), start)

	end, err := cfg.Migration.EndBound()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC), end)
}
