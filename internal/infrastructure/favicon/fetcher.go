// Package favicon provides best-effort favicon fetching with a memory and
// disk cache.
package favicon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/strataview/strata/internal/logging"
)

const (
	// DuckDuckGo favicon API URL template.
	duckduckgoFaviconURL = "https://icons.duckduckgo.com/ip3/%s.ico"
	fetchTimeout         = 5 * time.Second
)

// Fetcher retrieves favicons from the DuckDuckGo icon API.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with default HTTP client settings.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch retrieves favicon bytes for a hostname. Returns nil bytes without
// error when no favicon is available; favicons are strictly best-effort.
func (f *Fetcher) Fetch(ctx context.Context, hostname string) ([]byte, error) {
	if hostname == "" {
		return nil, nil
	}

	log := logging.FromContext(ctx)
	faviconURL := fmt.Sprintf(duckduckgoFaviconURL, url.QueryEscape(hostname))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, faviconURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("hostname", hostname).Msg("favicon fetch failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("hostname", hostname).Msg("favicon API returned non-OK status")
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	log.Debug().Str("hostname", hostname).Int("bytes", len(data)).Msg("favicon fetched")
	return data, nil
}
