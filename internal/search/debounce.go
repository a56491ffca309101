package search

import (
	"context"
	"sync"
	"time"

	"github.com/strataview/strata/internal/application/port"
	"github.com/strataview/strata/internal/logging"
)

// Debouncer coalesces rapid successive suggestion requests. Only the latest
// in-flight query's results are ever applied; results for superseded queries
// are discarded even if they arrive later.
type Debouncer struct {
	source port.SuggestionSource
	delay  time.Duration

	mu           sync.Mutex
	timer        *time.Timer
	gen          uint64
	pendingQuery string
	lastQuery    string
	lastResults  []string

	// onUpdate, when set, fires with fresh results for the latest query.
	// The callback is invoked from a background goroutine; receivers must
	// marshal onto their owner thread.
	onUpdate func(query string, results []string)
}

// NewDebouncer creates a debouncer over the given source.
func NewDebouncer(source port.SuggestionSource, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = 300 * time.Millisecond
	}
	return &Debouncer{
		source: source,
		delay:  delay,
	}
}

// Delay returns the debounce delay in effect.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// SetOnUpdate registers the fresh-results callback.
func (d *Debouncer) SetOnUpdate(fn func(query string, results []string)) {
	d.mu.Lock()
	d.onUpdate = fn
	d.mu.Unlock()
}

// Request schedules a fetch for query after the debounce delay. Requesting
// the same query twice while it is already pending is a no-op; requesting a
// different query supersedes the pending one.
func (d *Debouncer) Request(ctx context.Context, query string) {
	if query == "" {
		d.Cancel()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if query == d.pendingQuery && d.timer != nil {
		return
	}

	d.gen++
	myGen := d.gen
	d.pendingQuery = query
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fetch(ctx, query, myGen)
	})
}

// Suggestions returns the latest applied results when they belong to query,
// and schedules a fetch for it either way.
func (d *Debouncer) Suggestions(ctx context.Context, query string) []string {
	d.Request(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if query == d.lastQuery {
		return d.lastResults
	}
	return nil
}

// Cancel drops any pending fetch.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.pendingQuery = ""
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fetch(ctx context.Context, query string, gen uint64) {
	log := logging.FromContext(ctx)

	results, err := d.source.Fetch(ctx, query)
	if err != nil {
		// Suggestion failures are silent: the omnibox simply shows fewer
		// rows.
		log.Debug().Err(err).Str("query", query).Msg("suggestion fetch failed")
		d.mu.Lock()
		if gen == d.gen {
			d.pendingQuery = ""
		}
		d.mu.Unlock()
		return
	}

	d.mu.Lock()
	if gen != d.gen {
		// A newer query superseded this fetch while it was in flight.
		d.mu.Unlock()
		return
	}
	d.pendingQuery = ""
	d.lastQuery = query
	d.lastResults = results
	onUpdate := d.onUpdate
	d.mu.Unlock()

	if onUpdate != nil {
		onUpdate(query, results)
	}
}

// Direct is a SuggestionProvider that fetches synchronously, for contexts
// (CLI, tests) where debouncing is unnecessary.
type Direct struct {
	Source port.SuggestionSource
}

// Suggestions fetches suggestions, returning nil on failure.
func (d Direct) Suggestions(ctx context.Context, query string) []string {
	if d.Source == nil || query == "" {
		return nil
	}
	results, err := d.Source.Fetch(ctx, query)
	if err != nil {
		return nil
	}
	return results
}
