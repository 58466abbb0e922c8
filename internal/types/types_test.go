package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMinorUnits(t *testing.T) {
	assert.True(t, FromMinorUnits(1500).Equal(decimal.RequireFromString("15")))
	assert.True(t, FromMinorUnits(75).Equal(decimal.RequireFromString("0.75")))
	assert.True(t, FromMinorUnits(-230).Equal(decimal.RequireFromString("-2.3")))
	assert.True(t, FromMinorUnits(0).IsZero())
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2022-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("01.06.2022")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2022-06-01", FormatDate(time.Date(2022, 6, 1, 15, 30, 0, 0, time.UTC)))
}

func TestWindowContains(t *testing.T) {
	win := Window{
		Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, win.Contains(win.Start))
	assert.True(t, win.Contains(time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.False(t, win.Contains(win.End))
	assert.False(t, win.Contains(win.Start.Add(-time.Second)))
}

func TestGenerateUUIDWithPrefix(t *testing.T) {
	id := GenerateUUIDWithPrefix(UUID_PREFIX_RUN)
	assert.Contains(t, id, UUID_PREFIX_RUN+"_")
	assert.NotEqual(t, id, GenerateUUIDWithPrefix(UUID_PREFIX_RUN))
}
