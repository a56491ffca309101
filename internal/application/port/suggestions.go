package port

import "context"

// SuggestionSource fetches remote search suggestions for a query, already
// ranked by the provider. May be called concurrently for successive queries;
// the caller is responsible for debouncing and discarding stale results.
type SuggestionSource interface {
	Fetch(ctx context.Context, query string) ([]string, error)
}
