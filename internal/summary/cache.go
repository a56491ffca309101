// Package summary produces page summaries through a streamed generator,
// fronted by a content-addressed cache.
package summary

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/strataview/strata/internal/application/port"
)

// Summary is a cached summarization result for one page at one content
// revision.
type Summary struct {
	URL         string    `json:"url"`
	ContentHash string    `json:"content_hash"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// NormalizeWhitespace collapses all whitespace runs to single spaces and
// trims the ends, so cosmetic reflows of the same page text hash
// identically.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ContentHash returns the hex SHA-256 of the whitespace-normalized text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(NormalizeWhitespace(text)))
	return hex.EncodeToString(sum[:])
}

func cacheKey(url, contentHash string) string {
	combined := sha256.Sum256([]byte(url + "\x00" + contentHash))
	return fmt.Sprintf("summary/%s", hex.EncodeToString(combined[:]))
}

// Cache stores summaries keyed by page URL and content hash. A lookup is an
// exact match only: the same URL with different content is a miss, never a
// partial hit.
type Cache struct {
	store port.BlobStore
}

// NewCache creates a cache over the given store.
func NewCache(store port.BlobStore) *Cache {
	return &Cache{store: store}
}

// Get returns the cached summary for (url, contentHash) when present.
// Corrupt entries are treated as misses.
func (c *Cache) Get(url, contentHash string) (*Summary, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}
	data, found, err := c.store.Get(cacheKey(url, contentHash))
	if err != nil || !found {
		return nil, false
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, false
	}
	if s.URL != url || s.ContentHash != contentHash {
		return nil, false
	}
	return &s, true
}

// Put stores a summary under its (url, contentHash) key.
func (c *Cache) Put(s *Summary) error {
	if c == nil || c.store == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return c.store.Set(cacheKey(s.URL, s.ContentHash), data)
}

// Delete removes the cached summary for (url, contentHash), if any.
func (c *Cache) Delete(url, contentHash string) error {
	if c == nil || c.store == nil {
		return nil
	}
	return c.store.Delete(cacheKey(url, contentHash))
}
