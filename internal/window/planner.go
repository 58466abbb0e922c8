// Package window computes the time range of source records to fetch in
// one run. The source iterates newest-to-oldest, so the persisted
// watermark acts as an upper bound that shrinks on every resumed run:
// no record is revisited beyond the configured slack, which absorbs
// pagination and clock skew.
package window

import (
	"github.com/whummer/stripe-xero-sync/internal/config"
	"github.com/whummer/stripe-xero-sync/internal/types"
	"github.com/whummer/stripe-xero-sync/internal/watermark"
)

// Plan computes the [start, end) window for this run. With a watermark
// timestamp present, end = min(configured end, watermark + slack);
// on a first run the full configured range is used.
func Plan(state *watermark.State, cfg config.MigrationConfig) (types.Window, error) {
	start, err := cfg.StartBound()
	if err != nil {
		return types.Window{}, err
	}
	end, err := cfg.EndBound()
	if err != nil {
		return types.Window{}, err
	}

	if last, ok := state.LastProcessed(); ok {
		if resumed := last.Add(cfg.WindowSlack); resumed.Before(end) {
			end = resumed
		}
	}

	return types.Window{Start: start, End: end}, nil
}
