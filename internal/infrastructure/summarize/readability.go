// Package summarize provides the content extractor and streamed generator
// behind the summary service.
package summarize

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const fetchTimeout = 15 * time.Second

var skipSchemes = []string{"about:", "file:", "data:", "chrome:", "blob:"}

// Extractor pulls readable article text out of a page. When the caller
// already holds the raw HTML it is parsed directly; otherwise the page is
// fetched first.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an extractor with a default HTTP client.
func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Extract returns the readable text of the page at pageURL. rawHTML, when
// non-empty, is used instead of fetching.
func (e *Extractor) Extract(ctx context.Context, pageURL, rawHTML string) (string, error) {
	for _, scheme := range skipSchemes {
		if strings.HasPrefix(pageURL, scheme) {
			return "", fmt.Errorf("cannot extract content from %s URL", scheme)
		}
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}

	if rawHTML != "" {
		article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
		if err != nil {
			return "", fmt.Errorf("readability extraction failed: %w", err)
		}
		return article.TextContent, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}
	return article.TextContent, nil
}
