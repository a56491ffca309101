package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataview/strata/internal/persistence/sqlite"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "state", "test.sqlite"))

	_, found, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("tabs", []byte(`[{"id":"t1"}]`)))
	got, found, err := store.Get("tabs")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":"t1"}]`, string(got))

	// Last write wins.
	require.NoError(t, store.Set("tabs", []byte(`[]`)))
	got, _, _ = store.Get("tabs")
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, store.Delete("tabs"))
	_, found, _ = store.Get("tabs")
	assert.False(t, found)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")

	first, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, first.Set("spaces", []byte(`["s1"]`)))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	got, found, err := second.Get("spaces")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`["s1"]`), got)
}

func TestStore_DeleteAll(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "test.sqlite"))

	require.NoError(t, store.Set("a", []byte("1")))
	require.NoError(t, store.Set("b", []byte("2")))
	require.NoError(t, store.DeleteAll())

	_, found, err := store.Get("a")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, _ = store.Get("b")
	assert.False(t, found)
}
