package entity

// ResultKind tags the source of a search result.
type ResultKind string

const (
	ResultTab        ResultKind = "tab"
	ResultBookmark   ResultKind = "bookmark"
	ResultHistory    ResultKind = "history"
	ResultSuggestion ResultKind = "suggestion"
	ResultWebsite    ResultKind = "website"
	ResultCommand    ResultKind = "command"
)

// SearchResult is a single entry in a composed search result list.
// Derived, never persisted.
type SearchResult struct {
	Kind       ResultKind
	Title      string
	Subtitle   string
	URL        string
	TabID      TabID // set for tab results
	Thumbnail  []byte
	Confidence float64
}
