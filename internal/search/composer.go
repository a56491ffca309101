// Package search merges tab, bookmark, history, remote-suggestion, and
// command candidates for a query into one ordered result list.
package search

import (
	"context"
	"fmt"
	neturl "net/url"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/strataview/strata/internal/domain/entity"
	domainurl "github.com/strataview/strata/internal/domain/url"
	"github.com/strataview/strata/internal/logging"
)

// SessionReader is the read-only view of the session model the composer
// needs.
type SessionReader interface {
	ActiveTab() *entity.Tab
	TabsInSpace(id entity.SpaceID) []*entity.Tab
	Bookmarks() []*entity.Bookmark
	RecentHistory(n int) []*entity.HistoryEntry
}

// SuggestionProvider returns remote suggestions for a query. The debounced
// provider returns whatever the latest applied fetch produced; a direct
// provider may block on the network.
type SuggestionProvider interface {
	Suggestions(ctx context.Context, query string) []string
}

// Options configures a composer.
type Options struct {
	EngineName string
	// EngineURL is a format string with one %s verb for the escaped query.
	EngineURL string
	// HistoryWindow bounds the history scan to the N most recent entries.
	// This is a recency window, not a full-table scan.
	HistoryWindow int
}

// Composer builds the ranked result list for the omnibox.
type Composer struct {
	session     SessionReader
	suggestions SuggestionProvider
	opts        Options
}

// NewComposer creates a composer over the given session view.
// suggestions may be nil when no remote source is attached.
func NewComposer(session SessionReader, suggestions SuggestionProvider, opts Options) *Composer {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 20
	}
	return &Composer{
		session:     session,
		suggestions: suggestions,
		opts:        opts,
	}
}

const summarizeCommand = "summarize"

// Compose returns the result list for the query. The ordering is a fixed
// step sequence:
//
//  1. "Summarize Page" command, when the active tab is summarizable and the
//     query is empty or fuzzily matches "summarize"
//  2. for an empty query: the active space's tabs, nothing else
//  3. an "Open website" result for URL-like queries
//  4. the default-engine search entry
//  5. remote suggestions (skipping exact duplicates of the query)
//  6. history matches within the recency window
//  7. tab matches in the active space
//  8. bookmark matches across all spaces
//
// History entries expose a frecency score, but the composed order is the
// step sequence above, not a frecency sort.
func (c *Composer) Compose(ctx context.Context, query string, activeSpaceID entity.SpaceID) []entity.SearchResult {
	log := logging.FromContext(ctx)

	var results []entity.SearchResult

	if cmd, ok := c.summarizeCommandResult(query); ok {
		results = append(results, cmd)
	}

	if query == "" {
		for _, tab := range c.session.TabsInSpace(activeSpaceID) {
			results = append(results, tabResult(tab))
		}
		return results
	}

	if domainurl.LooksLikeURL(query) {
		results = append(results, entity.SearchResult{
			Kind:     entity.ResultWebsite,
			Title:    "Open website",
			Subtitle: query,
			URL:      domainurl.Normalize(query),
		})
	}

	results = append(results, entity.SearchResult{
		Kind:     entity.ResultSuggestion,
		Title:    query,
		Subtitle: fmt.Sprintf("Search with %s", c.opts.EngineName),
		URL:      c.searchURL(query),
	})

	if c.suggestions != nil {
		for _, s := range c.suggestions.Suggestions(ctx, query) {
			if strings.EqualFold(s, query) {
				continue
			}
			results = append(results, entity.SearchResult{
				Kind:     entity.ResultSuggestion,
				Title:    s,
				Subtitle: fmt.Sprintf("Search with %s", c.opts.EngineName),
				URL:      c.searchURL(s),
			})
		}
	}

	needle := strings.ToLower(query)

	for _, entry := range c.session.RecentHistory(c.opts.HistoryWindow) {
		if containsFold(entry.Title, needle) || containsFold(entry.URL, needle) {
			results = append(results, entity.SearchResult{
				Kind:     entity.ResultHistory,
				Title:    entry.Title,
				Subtitle: entry.URL,
				URL:      entry.URL,
			})
		}
	}

	for _, tab := range c.session.TabsInSpace(activeSpaceID) {
		if containsFold(tab.Title, needle) || containsFold(tab.URL, needle) {
			results = append(results, tabResult(tab))
		}
	}

	for _, bookmark := range c.session.Bookmarks() {
		if containsFold(bookmark.Title, needle) || containsFold(bookmark.URL, needle) {
			results = append(results, entity.SearchResult{
				Kind:     entity.ResultBookmark,
				Title:    bookmark.Title,
				Subtitle: bookmark.URL,
				URL:      bookmark.URL,
			})
		}
	}

	log.Debug().Str("query", query).Int("results", len(results)).Msg("search composed")
	return results
}

// summarizeCommandResult gates the "Summarize Page" command: the active tab
// must exist, not be loading, and have a real URL; the query must be empty
// or fuzzily match "summarize".
func (c *Composer) summarizeCommandResult(query string) (entity.SearchResult, bool) {
	tab := c.session.ActiveTab()
	if tab == nil || tab.IsLoading || tab.URL == "" || tab.URL == domainurl.BlankURL {
		return entity.SearchResult{}, false
	}
	if query != "" {
		if matches := fuzzy.Find(strings.ToLower(query), []string{summarizeCommand}); len(matches) == 0 {
			return entity.SearchResult{}, false
		}
	}
	return entity.SearchResult{
		Kind:     entity.ResultCommand,
		Title:    "Summarize Page",
		Subtitle: tab.DisplayTitle(),
		TabID:    tab.ID,
		URL:      tab.URL,
	}, true
}

func (c *Composer) searchURL(query string) string {
	return fmt.Sprintf(c.opts.EngineURL, neturl.QueryEscape(query))
}

func tabResult(tab *entity.Tab) entity.SearchResult {
	return entity.SearchResult{
		Kind:      entity.ResultTab,
		Title:     tab.DisplayTitle(),
		Subtitle:  tab.URL,
		URL:       tab.URL,
		TabID:     tab.ID,
		Thumbnail: tab.Favicon,
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
