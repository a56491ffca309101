package port

import "context"

// FaviconSource fetches favicon image bytes for a hostname. Best-effort:
// failures are silently ignored by callers and never retried.
type FaviconSource interface {
	Fetch(ctx context.Context, hostname string) ([]byte, error)
}
