package renderpool_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataview/strata/internal/application/port"
	"github.com/strataview/strata/internal/domain/entity"
	"github.com/strataview/strata/internal/renderpool"
)

type stubContext struct {
	mu       sync.Mutex
	observer func(port.NavigationEvent)
	loaded   []string
	closed   bool
}

func (s *stubContext) Load(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = append(s.loaded, url)
}
func (s *stubContext) Reload()            {}
func (s *stubContext) Stop()              {}
func (s *stubContext) GoBack()            {}
func (s *stubContext) GoForward()         {}
func (s *stubContext) CanGoBack() bool    { return false }
func (s *stubContext) CanGoForward() bool { return false }
func (s *stubContext) IsLoading() bool    { return false }
func (s *stubContext) SetObserver(fn func(port.NavigationEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}
func (s *stubContext) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *stubContext) emit(ev port.NavigationEvent) {
	s.mu.Lock()
	fn := s.observer
	s.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

type failedEvent struct {
	tabID entity.TabID
	err   error
}

type recorder struct {
	mu       sync.Mutex
	started  []entity.TabID
	finished []string
	failed   []failedEvent
}

func (r *recorder) LoadingStarted(tabID entity.TabID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, tabID)
}

func (r *recorder) LoadingFinished(tabID entity.TabID, title, url string, canGoBack, canGoForward bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, fmt.Sprintf("%s|%s|%s|%v|%v", tabID, title, url, canGoBack, canGoForward))
}

func (r *recorder) LoadingFailed(tabID entity.TabID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, failedEvent{tabID: tabID, err: err})
}

type downloadRecorder struct {
	urls []string
}

func (d *downloadRecorder) HandleDownload(_ context.Context, url string) {
	d.urls = append(d.urls, url)
}

func newPool(events renderpool.Events, downloads port.DownloadHandler) (*renderpool.Pool, *[]*stubContext) {
	created := &[]*stubContext{}
	var mu sync.Mutex
	factory := func(_ context.Context, _ string) (port.RenderingContext, error) {
		handle := &stubContext{}
		mu.Lock()
		*created = append(*created, handle)
		mu.Unlock()
		return handle, nil
	}
	return renderpool.New(factory, events, downloads), created
}

func TestPool_AcquireIsIdempotent(t *testing.T) {
	ctx := context.Background()
	pool, created := newPool(&recorder{}, nil)

	first, err := pool.Acquire(ctx, "t1", "https://example.com")
	require.NoError(t, err)
	second, err := pool.Acquire(ctx, "t1", "https://example.com")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, *created, 1)
	assert.Equal(t, 1, pool.Size())
	assert.Equal(t, []string{"https://example.com"}, (*created)[0].loaded)
}

func TestPool_AcquireFactoryError(t *testing.T) {
	factoryErr := errors.New("no engine")
	factory := func(_ context.Context, _ string) (port.RenderingContext, error) {
		return nil, factoryErr
	}
	pool := renderpool.New(factory, &recorder{}, nil)

	_, err := pool.Acquire(context.Background(), "t1", "https://example.com")
	require.ErrorIs(t, err, factoryErr)
	assert.Equal(t, 0, pool.Size())
}

func TestPool_ReleaseClosesHandle(t *testing.T) {
	ctx := context.Background()
	pool, created := newPool(&recorder{}, nil)

	_, err := pool.Acquire(ctx, "t1", "https://example.com")
	require.NoError(t, err)

	pool.Release("t1")
	assert.Equal(t, 0, pool.Size())
	assert.True(t, (*created)[0].closed)
	assert.Nil(t, (*created)[0].observer)

	// Releasing an unknown tab is a no-op.
	pool.Release("missing")
}

func TestPool_ObserverTranslatesEvents(t *testing.T) {
	ctx := context.Background()
	events := &recorder{}
	downloads := &downloadRecorder{}
	pool, created := newPool(events, downloads)

	_, err := pool.Acquire(ctx, "t1", "https://example.com")
	require.NoError(t, err)
	handle := (*created)[0]

	handle.emit(port.NavigationEvent{Kind: port.NavigationStarted})
	handle.emit(port.NavigationEvent{
		Kind:      port.NavigationFinished,
		Title:     "Example",
		URL:       "https://example.com/landed",
		CanGoBack: true,
	})
	handle.emit(port.NavigationEvent{Kind: port.DownloadIntercepted, DownloadURL: "https://example.com/file.tar.gz"})

	assert.Equal(t, []entity.TabID{"t1"}, events.started)
	require.Len(t, events.finished, 1)
	assert.Equal(t, "t1|Example|https://example.com/landed|true|false", events.finished[0])
	assert.Equal(t, []string{"https://example.com/file.tar.gz"}, downloads.urls)
}

func TestPool_CancelledNavigationIsSilent(t *testing.T) {
	ctx := context.Background()
	events := &recorder{}
	pool, created := newPool(events, nil)

	_, err := pool.Acquire(ctx, "t1", "https://example.com")
	require.NoError(t, err)

	(*created)[0].emit(port.NavigationEvent{
		Kind: port.NavigationFailed,
		Err:  fmt.Errorf("%w: user stopped", port.ErrNavCancelled),
	})

	// The loading flag still resets through the failure path, but the error
	// is swallowed.
	require.Len(t, events.failed, 1)
	assert.Equal(t, entity.TabID("t1"), events.failed[0].tabID)
	assert.NoError(t, events.failed[0].err)
}

func TestPool_FailedNavigationCarriesError(t *testing.T) {
	ctx := context.Background()
	events := &recorder{}
	pool, created := newPool(events, nil)

	_, err := pool.Acquire(ctx, "t1", "https://example.com")
	require.NoError(t, err)

	(*created)[0].emit(port.NavigationEvent{
		Kind: port.NavigationFailed,
		Err:  fmt.Errorf("%w: dns failure", port.ErrNavConnectivity),
	})

	require.Len(t, events.failed, 1)
	assert.ErrorIs(t, events.failed[0].err, port.ErrNavConnectivity)
}

func TestPool_CloseReleasesEverything(t *testing.T) {
	ctx := context.Background()
	pool, created := newPool(&recorder{}, nil)

	_, err := pool.Acquire(ctx, "t1", "https://one.example")
	require.NoError(t, err)
	_, err = pool.Acquire(ctx, "t2", "https://two.example")
	require.NoError(t, err)

	pool.Close()
	assert.Equal(t, 0, pool.Size())
	for _, handle := range *created {
		assert.True(t, handle.closed)
	}
}
