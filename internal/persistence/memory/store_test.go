package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataview/strata/internal/persistence/memory"
)

func TestStore_RoundTrip(t *testing.T) {
	s := memory.NewStore()

	_, found, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set("key", []byte("value")))
	got, found, err := s.Get("key")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("value"), got)

	require.NoError(t, s.Set("key", []byte("overwritten")))
	got, _, _ = s.Get("key")
	assert.Equal(t, []byte("overwritten"), got)

	require.NoError(t, s.Delete("key"))
	_, found, _ = s.Get("key")
	assert.False(t, found)
}

func TestStore_CopiesValues(t *testing.T) {
	s := memory.NewStore()

	original := []byte("value")
	require.NoError(t, s.Set("key", original))
	original[0] = 'X'

	got, _, _ := s.Get("key")
	assert.Equal(t, []byte("value"), got)

	got[0] = 'Y'
	again, _, _ := s.Get("key")
	assert.Equal(t, []byte("value"), again)
}

func TestStore_Keys(t *testing.T) {
	s := memory.NewStore()
	require.NoError(t, s.Set("a", []byte("1")))
	require.NoError(t, s.Set("b", []byte("2")))

	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
}
