package search_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataview/strata/internal/search"
)

type recordingSource struct {
	mu      sync.Mutex
	queries []string
	delays  map[string]time.Duration
	err     error
}

func (r *recordingSource) Fetch(ctx context.Context, query string) ([]string, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	delay := r.delays[query]
	err := r.err
	r.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []string{query + " suggestion"}, nil
}

func (r *recordingSource) fetched() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.queries))
	copy(out, r.queries)
	return out
}

func TestDebouncer_CoalescesRapidRequests(t *testing.T) {
	source := &recordingSource{}
	d := search.NewDebouncer(source, 20*time.Millisecond)

	applied := make(chan string, 4)
	d.SetOnUpdate(func(query string, _ []string) {
		applied <- query
	})

	ctx := context.Background()
	d.Request(ctx, "g")
	d.Request(ctx, "go")
	d.Request(ctx, "gol")

	select {
	case query := <-applied:
		assert.Equal(t, "gol", query)
	case <-time.After(time.Second):
		t.Fatal("no update applied")
	}

	// The earlier keystrokes never reached the source.
	assert.Equal(t, []string{"gol"}, source.fetched())
	assert.Equal(t, []string{"gol suggestion"}, d.Suggestions(ctx, "gol"))
}

func TestDebouncer_OnlyLatestQueryApplies(t *testing.T) {
	source := &recordingSource{delays: map[string]time.Duration{"slow": 150 * time.Millisecond}}
	d := search.NewDebouncer(source, time.Millisecond)

	var mu sync.Mutex
	var applied []string
	done := make(chan struct{}, 2)
	d.SetOnUpdate(func(query string, _ []string) {
		mu.Lock()
		applied = append(applied, query)
		mu.Unlock()
		done <- struct{}{}
	})

	ctx := context.Background()
	d.Request(ctx, "slow")
	// Let the slow fetch get in flight, then supersede it.
	time.Sleep(30 * time.Millisecond)
	d.Request(ctx, "fast")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fast result never applied")
	}
	// Give the superseded slow fetch time to come back and be discarded.
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"fast"}, applied)
}

func TestDebouncer_CancelDropsPendingFetch(t *testing.T) {
	source := &recordingSource{}
	d := search.NewDebouncer(source, 20*time.Millisecond)

	d.Request(context.Background(), "doomed")
	d.Cancel()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, source.fetched())
}

func TestDebouncer_EmptyQueryCancels(t *testing.T) {
	source := &recordingSource{}
	d := search.NewDebouncer(source, 20*time.Millisecond)

	ctx := context.Background()
	d.Request(ctx, "something")
	d.Request(ctx, "")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, source.fetched())
}

func TestDebouncer_DuplicatePendingQueryIsNoOp(t *testing.T) {
	source := &recordingSource{}
	d := search.NewDebouncer(source, 20*time.Millisecond)

	applied := make(chan string, 2)
	d.SetOnUpdate(func(query string, _ []string) {
		applied <- query
	})

	ctx := context.Background()
	d.Request(ctx, "same")
	d.Request(ctx, "same")

	select {
	case <-applied:
	case <-time.After(time.Second):
		t.Fatal("no update applied")
	}
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"same"}, source.fetched())
}

func TestDebouncer_FetchErrorsAreSilent(t *testing.T) {
	source := &recordingSource{err: errors.New("offline")}
	d := search.NewDebouncer(source, time.Millisecond)

	var updates int
	d.SetOnUpdate(func(string, []string) { updates++ })

	ctx := context.Background()
	d.Request(ctx, "query")
	time.Sleep(50 * time.Millisecond)

	require.Equal(t, []string{"query"}, source.fetched())
	assert.Zero(t, updates)
	assert.Nil(t, d.Suggestions(ctx, "query"))
}

func TestDirect_FetchesSynchronously(t *testing.T) {
	source := &recordingSource{}
	direct := search.Direct{Source: source}

	results := direct.Suggestions(context.Background(), "go")
	assert.Equal(t, []string{"go suggestion"}, results)

	assert.Nil(t, search.Direct{}.Suggestions(context.Background(), "go"))
	assert.Nil(t, direct.Suggestions(context.Background(), ""))
}

func TestDirect_ErrorReturnsNil(t *testing.T) {
	source := &recordingSource{err: errors.New("offline")}
	direct := search.Direct{Source: source}
	assert.Nil(t, direct.Suggestions(context.Background(), "go"))
}
