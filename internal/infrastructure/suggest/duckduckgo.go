// Package suggest implements the remote search-suggestion source.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/strataview/strata/internal/logging"
)

const fetchTimeout = 5 * time.Second

// Source fetches suggestions from a DuckDuckGo-style autocomplete endpoint
// that returns `[{"phrase": "..."}]`.
type Source struct {
	client *http.Client
	// endpoint is a format string with one %s verb for the escaped query.
	endpoint string
}

// NewSource creates a suggestion source for the given endpoint template.
func NewSource(endpoint string) *Source {
	return &Source{
		client:   &http.Client{Timeout: fetchTimeout},
		endpoint: endpoint,
	}
}

type phrase struct {
	Phrase string `json:"phrase"`
}

// Fetch returns ranked suggestions for query. Callers debounce and discard
// stale results; Fetch itself is a plain request.
func (s *Source) Fetch(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		return nil, nil
	}

	suggestURL := fmt.Sprintf(s.endpoint, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, suggestURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestion endpoint returned HTTP %d", resp.StatusCode)
	}

	var phrases []phrase
	if err := json.NewDecoder(resp.Body).Decode(&phrases); err != nil {
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}

	results := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p.Phrase != "" {
			results = append(results, p.Phrase)
		}
	}

	logging.FromContext(ctx).Debug().Str("query", query).Int("count", len(results)).Msg("suggestions fetched")
	return results, nil
}
