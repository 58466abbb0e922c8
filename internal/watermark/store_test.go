package watermark

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
)

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state.LastDate)
	assert.Empty(t, state.Migrated)
	assert.Empty(t, state.MigratedRefunds)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	state := NewState()
	state.Advance(time.Date(2022, 6, 1, 12, 0, 0, 0, time.UTC))
	state.MarkInvoice("in_1")
	state.MarkInvoice("in_2")
	state.MarkRefund("re_1")
	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.LastDate)
	assert.Equal(t, *state.LastDate, *loaded.LastDate)
	assert.Equal(t, []string{"in_1", "in_2"}, loaded.Migrated)
	assert.Equal(t, []string{"re_1"}, loaded.MigratedRefunds)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.True(t, ierr.IsStateStore(err))
}

func TestFileStoreLoadNormalizesMissingSets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"last_date":1654084800}`), 0o644))

	state, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.NotNil(t, state.Migrated)
	assert.NotNil(t, state.MigratedRefunds)
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "state.json"))
	require.NoError(t, store.Save(NewState()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestStateMarkIsIdempotent(t *testing.T) {
	state := NewState()
	state.MarkInvoice("in_1")
	state.MarkInvoice("in_1")
	state.MarkRefund("re_1")
	state.MarkRefund("re_1")

	assert.Equal(t, []string{"in_1"}, state.Migrated)
	assert.Equal(t, []string{"re_1"}, state.MigratedRefunds)
	assert.True(t, state.HasInvoice("in_1"))
	assert.False(t, state.HasInvoice("in_2"))
}

func TestStateLastProcessed(t *testing.T) {
	state := NewState()
	_, ok := state.LastProcessed()
	assert.False(t, ok)

	ts := time.Date(2022, 3, 15, 8, 30, 0, 0, time.UTC)
	state.Advance(ts)
	last, ok := state.LastProcessed()
	require.True(t, ok)
	assert.Equal(t, ts, last)
}
