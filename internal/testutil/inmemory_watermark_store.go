package testutil

import (
	"encoding/json"
	"sync"

	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/watermark"
)

// InMemoryWatermarkStore is an in-memory implementation of the
// watermark.Store interface. State round-trips through JSON so tests
// observe the same persisted-copy semantics as the file store.
type InMemoryWatermarkStore struct {
	mu    sync.Mutex
	saved []byte

	// SaveCount tallies Save calls so tests can assert persistence points
	SaveCount int
	// SaveErr, when set, is returned by Save to simulate a broken store
	SaveErr error
}

// NewInMemoryWatermarkStore creates a new instance of InMemoryWatermarkStore
func NewInMemoryWatermarkStore() *InMemoryWatermarkStore {
	return &InMemoryWatermarkStore{}
}

// Load returns the last saved state, or a fresh one when nothing was
// ever saved.
func (s *InMemoryWatermarkStore) Load() (*watermark.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saved == nil {
		return watermark.NewState(), nil
	}
	state := watermark.NewState()
	if err := json.Unmarshal(s.saved, state); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored state is not valid JSON").
			Mark(ierr.ErrStateStore)
	}
	return state, nil
}

// Save persists a snapshot of the state
func (s *InMemoryWatermarkStore) Save(state *watermark.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	data, err := json.Marshal(state)
	if err != nil {
		return ierr.WithError(err).
			WithHint("State is not serializable").
			Mark(ierr.ErrStateStore)
	}
	s.saved = data
	s.SaveCount++
	return nil
}

// Saved returns the last persisted state without resetting anything
func (s *InMemoryWatermarkStore) Saved() *watermark.State {
	state, _ := s.Load()
	return state
}
