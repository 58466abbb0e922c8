package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whummer/stripe-xero-sync/internal/config"
	"github.com/whummer/stripe-xero-sync/internal/watermark"
)

func TestPlan(t *testing.T) {
	cfg := config.MigrationConfig{
		StartDate:   "2022-01-01",
		EndDate:     "2022-12-31",
		WindowSlack: 24 * time.Hour,
	}

	tests := []struct {
		name      string
		watermark *time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "first run covers the full configured range",
			wantStart: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "resumed run ends one slack past the watermark",
			watermark: ptr(time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC)),
			wantStart: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2022, 6, 2, 12, 0, 0, 0, time.UTC),
		},
		{
			name:      "watermark near the end never extends the range",
			watermark: ptr(time.Date(2022, 12, 30, 23, 0, 0, 0, time.UTC)),
			wantStart: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := watermark.NewState()
			if tt.watermark != nil {
				state.Advance(*tt.watermark)
			}
			win, err := Plan(state, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, win.Start)
			assert.Equal(t, tt.wantEnd, win.End)
		})
	}
}

func TestPlanInvalidDates(t *testing.T) {
	_, err := Plan(watermark.NewState(), config.MigrationConfig{
		StartDate: "not-a-date",
		EndDate:   "2022-12-31",
	})
	assert.Error(t, err)

	_, err = Plan(watermark.NewState(), config.MigrationConfig{
		StartDate: "2022-01-01",
		EndDate:   "31.12.2022",
	})
	assert.Error(t, err)
}

func ptr(t time.Time) *time.Time {
	return &t
}
