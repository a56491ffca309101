// Package renderpool owns the association between tabs and their native
// rendering-context handles. Handles are created lazily, observed for
// navigation lifecycle events, and torn down when their tab closes. Tab
// entities stay plain data; all handle lifecycle logic is centralized here.
package renderpool

import (
	"context"
	"errors"
	"sync"

	"github.com/strataview/strata/internal/application/port"
	"github.com/strataview/strata/internal/domain/entity"
	"github.com/strataview/strata/internal/logging"
)

// Events receives model-facing notifications translated from raw handle
// events. Implementations must marshal any state mutation onto the session
// owner goroutine.
type Events interface {
	// LoadingStarted fires when a handle begins a load.
	LoadingStarted(tabID entity.TabID)

	// LoadingFinished fires on a successful terminal navigation outcome,
	// carrying the resolved page state. The receiver is expected to append
	// the visit to history.
	LoadingFinished(tabID entity.TabID, title, url string, canGoBack, canGoForward bool)

	// LoadingFailed fires on a failed terminal navigation outcome so the
	// receiver can reset the tab's loading flag. err is nil for swallowed
	// cancellations, which are not user-visible failures.
	LoadingFailed(tabID entity.TabID, err error)
}

// Pool maps tab identities to live rendering-context handles.
type Pool struct {
	mu      sync.Mutex
	factory port.RenderingContextFactory
	handles map[entity.TabID]port.RenderingContext

	events    Events
	downloads port.DownloadHandler
}

// New creates a pool that builds handles with the given factory and reports
// translated events to events. downloads may be nil when no download
// collaborator is attached.
func New(factory port.RenderingContextFactory, events Events, downloads port.DownloadHandler) *Pool {
	return &Pool{
		factory:   factory,
		handles:   make(map[entity.TabID]port.RenderingContext),
		events:    events,
		downloads: downloads,
	}
}

// Acquire returns the existing handle for tabID if present; otherwise it
// lazily constructs one bound to url, wires the observer, and begins a load.
// Idempotent: calling twice for a live tab returns the same handle.
func (p *Pool) Acquire(ctx context.Context, tabID entity.TabID, url string) (port.RenderingContext, error) {
	log := logging.FromContext(ctx)

	p.mu.Lock()
	if handle, ok := p.handles[tabID]; ok {
		p.mu.Unlock()
		return handle, nil
	}
	p.mu.Unlock()

	handle, err := p.factory(ctx, url)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	// A concurrent Acquire may have won the race while the factory ran.
	if existing, ok := p.handles[tabID]; ok {
		p.mu.Unlock()
		handle.Close()
		return existing, nil
	}
	p.handles[tabID] = handle
	p.mu.Unlock()

	handle.SetObserver(p.observer(ctx, tabID))
	handle.Load(url)

	log.Debug().Str("tab_id", string(tabID)).Str("url", url).Msg("rendering context acquired")
	return handle, nil
}

// Get returns the live handle for tabID without creating one.
func (p *Pool) Get(tabID entity.TabID) (port.RenderingContext, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	handle, ok := p.handles[tabID]
	return handle, ok
}

// Release detaches and discards the handle for tabID. Safe to call when no
// handle exists.
func (p *Pool) Release(tabID entity.TabID) {
	p.mu.Lock()
	handle, ok := p.handles[tabID]
	if ok {
		delete(p.handles, tabID)
	}
	p.mu.Unlock()

	if ok {
		handle.SetObserver(nil)
		handle.Close()
	}
}

// Size returns the number of live handles.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handles)
}

// Close releases every handle.
func (p *Pool) Close() {
	p.mu.Lock()
	handles := p.handles
	p.handles = make(map[entity.TabID]port.RenderingContext)
	p.mu.Unlock()

	for _, handle := range handles {
		handle.SetObserver(nil)
		handle.Close()
	}
}

// observer translates raw handle events into model notifications.
// The loading flag is reset on every terminal outcome, including failure.
func (p *Pool) observer(ctx context.Context, tabID entity.TabID) func(port.NavigationEvent) {
	log := logging.FromContext(ctx)

	return func(ev port.NavigationEvent) {
		switch ev.Kind {
		case port.NavigationStarted:
			p.events.LoadingStarted(tabID)

		case port.NavigationFinished:
			p.events.LoadingFinished(tabID, ev.Title, ev.URL, ev.CanGoBack, ev.CanGoForward)

		case port.NavigationFailed:
			if errors.Is(ev.Err, port.ErrNavCancelled) {
				// Expected outcome, not a user-visible error. Still reset
				// the loading flag through the failure path.
				log.Debug().Str("tab_id", string(tabID)).Msg("navigation cancelled")
				p.events.LoadingFailed(tabID, nil)
				return
			}
			switch {
			case errors.Is(ev.Err, port.ErrNavTimeout):
				log.Warn().Str("tab_id", string(tabID)).Err(ev.Err).Msg("navigation timed out")
			case errors.Is(ev.Err, port.ErrNavConnectivity):
				log.Warn().Str("tab_id", string(tabID)).Err(ev.Err).Msg("navigation connectivity failure")
			default:
				log.Warn().Str("tab_id", string(tabID)).Err(ev.Err).Msg("navigation failed")
			}
			p.events.LoadingFailed(tabID, ev.Err)

		case port.DownloadIntercepted:
			if p.downloads != nil {
				p.downloads.HandleDownload(ctx, ev.DownloadURL)
			}
		}
	}
}
