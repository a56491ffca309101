package port

import (
	"context"
	"errors"
)

// Navigation failure classification. Cancellation is an expected outcome and
// is never surfaced as a user-visible error.
var (
	ErrNavCancelled    = errors.New("navigation cancelled")
	ErrNavTimeout      = errors.New("navigation timed out")
	ErrNavConnectivity = errors.New("navigation failed: no connectivity")
)

// NavigationEventKind identifies a lifecycle event reported by a rendering
// context.
type NavigationEventKind int

const (
	NavigationStarted NavigationEventKind = iota
	NavigationFinished
	NavigationFailed
	DownloadIntercepted
)

// NavigationEvent is a single lifecycle event from a rendering context.
type NavigationEvent struct {
	Kind NavigationEventKind

	// Resolved page state, set on NavigationFinished.
	Title        string
	URL          string
	CanGoBack    bool
	CanGoForward bool

	// Err is set on NavigationFailed. Classify with errors.Is against the
	// ErrNav* sentinels.
	Err error

	// DownloadURL is set on DownloadIntercepted.
	DownloadURL string
}

// RenderingContext is the opaque native rendering handle backing a tab.
// The implementation lives outside this module; the engine only drives
// navigation and observes lifecycle events.
type RenderingContext interface {
	Load(url string)
	Reload()
	Stop()
	GoBack()
	GoForward()

	CanGoBack() bool
	CanGoForward() bool
	IsLoading() bool

	// SetObserver registers the single observer for navigation lifecycle
	// events. Passing nil detaches the current observer.
	SetObserver(func(NavigationEvent))

	// Close tears down the handle. The handle must not be used afterwards.
	Close()
}

// RenderingContextFactory constructs a rendering context for a tab's URL.
type RenderingContextFactory func(ctx context.Context, url string) (RenderingContext, error)

// DownloadHandler receives downloads intercepted by a rendering context.
type DownloadHandler interface {
	HandleDownload(ctx context.Context, url string)
}
