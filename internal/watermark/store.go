package watermark

import (
	"encoding/json"
	"os"
	"path/filepath"

	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
)

// Store persists and loads the watermark state document.
type Store interface {
	// Load returns the persisted state, or the empty state when none
	// exists yet.
	Load() (*State, error)

	// Save overwrites the state atomically; the new document is
	// guaranteed visible to the next Load.
	Save(state *State) error
}

// FileStore keeps the state as a JSON document at a configurable path.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed watermark store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, ierr.WithError(err).
			WithHintf("Failed to read state file %s", s.path).
			Mark(ierr.ErrStateStore)
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("State file %s exists but is not readable", s.path).
			Mark(ierr.ErrStateStore)
	}
	if state.Migrated == nil {
		state.Migrated = []string{}
	}
	if state.MigratedRefunds == nil {
		state.MigratedRefunds = []string{}
	}
	return state, nil
}

// Save writes the full document to a scoped temporary file and renames
// it over the target, so a crash never leaves a partially written
// state behind.
func (s *FileStore) Save(state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode watermark state").
			Mark(ierr.ErrStateStore)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".migration.state-*.tmp")
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to create temporary state file in %s", dir).
			Mark(ierr.ErrStateStore)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ierr.WithError(err).
			WithHint("Failed to write watermark state").
			Mark(ierr.ErrStateStore)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ierr.WithError(err).
			WithHint("Failed to flush watermark state").
			Mark(ierr.ErrStateStore)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return ierr.WithError(err).
			WithHintf("Failed to replace state file %s", s.path).
			Mark(ierr.ErrStateStore)
	}
	return nil
}
