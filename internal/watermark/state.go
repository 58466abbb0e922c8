package watermark

import (
	"time"

	"github.com/samber/lo"

	"github.com/whummer/stripe-xero-sync/internal/types"
)

// State is the persisted watermark document: the creation timestamp of
// the last fetched record plus the sets of already-migrated source
// entity ids. Every id in the migrated sets corresponds to a
// destination entity confirmed created (or confirmed already existing)
// at some prior point.
type State struct {
	// LastDate is the creation timestamp (epoch seconds) of the last
	// record fetched. The source iterates newest-first, so this is an
	// upper bound that shrinks as a run progresses and, with slack
	// added, bounds the next run's window.
	LastDate *int64 `json:"last_date,omitempty"`

	Migrated        []string `json:"migrated"`
	MigratedRefunds []string `json:"migrated_refunds"`
}

// NewState returns the empty first-run state.
func NewState() *State {
	return &State{
		Migrated:        []string{},
		MigratedRefunds: []string{},
	}
}

// Advance records the creation timestamp of the record about to be
// processed. Persisted before the record is handled so a crash
// mid-record replays that one record but never skips one.
func (s *State) Advance(t time.Time) {
	epoch := t.Unix()
	s.LastDate = &epoch
}

// LastProcessed returns the watermark timestamp, if any.
func (s *State) LastProcessed() (time.Time, bool) {
	if s.LastDate == nil {
		return time.Time{}, false
	}
	return types.FromEpoch(*s.LastDate), true
}

// HasInvoice reports whether the source invoice id was already migrated.
func (s *State) HasInvoice(id string) bool {
	return lo.Contains(s.Migrated, id)
}

// MarkInvoice appends a source invoice id to the migrated set.
func (s *State) MarkInvoice(id string) {
	if !s.HasInvoice(id) {
		s.Migrated = append(s.Migrated, id)
	}
}

// HasRefund reports whether the source refund id was already migrated.
func (s *State) HasRefund(id string) bool {
	return lo.Contains(s.MigratedRefunds, id)
}

// MarkRefund appends a source refund id to the migrated set.
func (s *State) MarkRefund(id string) {
	if !s.HasRefund(id) {
		s.MigratedRefunds = append(s.MigratedRefunds, id)
	}
}
