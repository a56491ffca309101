package summary_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataview/strata/internal/persistence/memory"
	"github.com/strataview/strata/internal/summary"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", summary.NormalizeWhitespace("  a\n\tb   c  "))
	assert.Equal(t, "", summary.NormalizeWhitespace(" \n\t "))
}

func TestContentHash_StableUnderReflow(t *testing.T) {
	h1 := summary.ContentHash("hello   world")
	h2 := summary.ContentHash("hello\nworld")
	h3 := summary.ContentHash("hello worlds")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestCache_RoundTrip(t *testing.T) {
	cache := summary.NewCache(memory.NewStore())

	s := &summary.Summary{
		URL:         "https://example.com",
		ContentHash: summary.ContentHash("page text"),
		Text:        "a summary",
		CreatedAt:   time.Now(),
	}
	require.NoError(t, cache.Put(s))

	got, ok := cache.Get("https://example.com", s.ContentHash)
	require.True(t, ok)
	assert.Equal(t, s.Text, got.Text)

	// Same URL, different content: exact-match only.
	_, ok = cache.Get("https://example.com", summary.ContentHash("changed text"))
	assert.False(t, ok)

	// Same content, different URL.
	_, ok = cache.Get("https://other.example", s.ContentHash)
	assert.False(t, ok)
}

func TestCache_Delete(t *testing.T) {
	cache := summary.NewCache(memory.NewStore())
	hash := summary.ContentHash("page text")

	require.NoError(t, cache.Put(&summary.Summary{URL: "https://example.com", ContentHash: hash, Text: "s"}))
	require.NoError(t, cache.Delete("https://example.com", hash))

	_, ok := cache.Get("https://example.com", hash)
	assert.False(t, ok)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	store := memory.NewStore()
	cache := summary.NewCache(store)
	hash := summary.ContentHash("page text")

	require.NoError(t, cache.Put(&summary.Summary{URL: "https://example.com", ContentHash: hash, Text: "s"}))
	// Clobber the stored blob behind the cache's back.
	for _, key := range store.Keys() {
		require.NoError(t, store.Set(key, []byte("{corrupt")))
	}

	_, ok := cache.Get("https://example.com", hash)
	assert.False(t, ok)
}

func TestCache_NilStoreIsDisabled(t *testing.T) {
	cache := summary.NewCache(nil)

	require.NoError(t, cache.Put(&summary.Summary{URL: "u", ContentHash: "h"}))
	_, ok := cache.Get("u", "h")
	assert.False(t, ok)
}
