// Package headless implements a rendering context that resolves pages over
// plain HTTP, without a native engine. It backs the CLI and tests: loads
// fetch the page, resolve its title, and emit the same navigation lifecycle
// events a real engine would.
package headless

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/strataview/strata/internal/application/port"
)

const loadTimeout = 15 * time.Second

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// Context is an HTTP-backed rendering context. Navigation history is an
// in-memory stack, titles come from the fetched document.
type Context struct {
	mu         sync.Mutex
	client     *http.Client
	parent     context.Context
	observer   func(port.NavigationEvent)
	backStack  []string
	fwdStack   []string
	currentURL string
	isLoading  bool
	loadCancel context.CancelFunc
	closed     bool
}

// Factory returns a RenderingContextFactory producing headless contexts.
// The initial URL is not loaded by the factory; the pool issues the first
// Load itself.
func Factory() port.RenderingContextFactory {
	return func(ctx context.Context, url string) (port.RenderingContext, error) {
		return &Context{
			client: &http.Client{Timeout: loadTimeout},
			parent: ctx,
		}, nil
	}
}

// SetObserver registers the navigation event observer. Passing nil detaches
// it.
func (c *Context) SetObserver(fn func(port.NavigationEvent)) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

// Load begins fetching url. The previous in-flight load, if any, is
// cancelled first.
func (c *Context) Load(url string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.loadCancel != nil {
		c.loadCancel()
	}
	if c.currentURL != "" && c.currentURL != url {
		c.backStack = append(c.backStack, c.currentURL)
		c.fwdStack = nil
	}
	parent := c.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	c.loadCancel = cancel
	c.isLoading = true
	c.mu.Unlock()

	c.emit(port.NavigationEvent{Kind: port.NavigationStarted, URL: url})
	go c.fetch(ctx, url)
}

// Reload re-fetches the current URL.
func (c *Context) Reload() {
	c.mu.Lock()
	url := c.currentURL
	c.mu.Unlock()
	if url != "" {
		c.Load(url)
	}
}

// Stop cancels the in-flight load, if any.
func (c *Context) Stop() {
	c.mu.Lock()
	if c.loadCancel != nil {
		c.loadCancel()
		c.loadCancel = nil
	}
	c.mu.Unlock()
}

// GoBack navigates to the previous history entry.
func (c *Context) GoBack() {
	c.mu.Lock()
	if len(c.backStack) == 0 {
		c.mu.Unlock()
		return
	}
	target := c.backStack[len(c.backStack)-1]
	c.backStack = c.backStack[:len(c.backStack)-1]
	if c.currentURL != "" {
		c.fwdStack = append(c.fwdStack, c.currentURL)
	}
	c.currentURL = ""
	c.mu.Unlock()
	c.Load(target)
}

// GoForward navigates to the next history entry.
func (c *Context) GoForward() {
	c.mu.Lock()
	if len(c.fwdStack) == 0 {
		c.mu.Unlock()
		return
	}
	target := c.fwdStack[len(c.fwdStack)-1]
	c.fwdStack = c.fwdStack[:len(c.fwdStack)-1]
	if c.currentURL != "" {
		c.backStack = append(c.backStack, c.currentURL)
	}
	c.currentURL = ""
	c.mu.Unlock()
	c.Load(target)
}

// CanGoBack reports whether history has a previous entry.
func (c *Context) CanGoBack() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.backStack) > 0
}

// CanGoForward reports whether history has a next entry.
func (c *Context) CanGoForward() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.fwdStack) > 0
}

// IsLoading reports whether a load is in flight.
func (c *Context) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLoading
}

// Close cancels any in-flight load and detaches the observer.
func (c *Context) Close() {
	c.mu.Lock()
	c.closed = true
	c.observer = nil
	if c.loadCancel != nil {
		c.loadCancel()
		c.loadCancel = nil
	}
	c.mu.Unlock()
}

func (c *Context) fetch(ctx context.Context, url string) {
	title, err := c.resolveTitle(ctx, url)
	if err != nil {
		c.mu.Lock()
		c.isLoading = false
		c.mu.Unlock()
		c.emit(port.NavigationEvent{
			Kind: port.NavigationFailed,
			URL:  url,
			Err:  classify(ctx, err),
		})
		return
	}

	c.mu.Lock()
	c.isLoading = false
	c.currentURL = url
	canGoBack := len(c.backStack) > 0
	canGoForward := len(c.fwdStack) > 0
	c.mu.Unlock()

	c.emit(port.NavigationEvent{
		Kind:         port.NavigationFinished,
		Title:        title,
		URL:          url,
		CanGoBack:    canGoBack,
		CanGoForward: canGoForward,
	})
}

func (c *Context) resolveTitle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// Titles live in the document head; 64KiB is plenty.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", err
	}
	if m := titlePattern.FindSubmatch(body); m != nil {
		return strings.TrimSpace(html.UnescapeString(string(m[1]))), nil
	}
	return "", nil
}

func (c *Context) emit(ev port.NavigationEvent) {
	c.mu.Lock()
	observer := c.observer
	c.mu.Unlock()
	if observer != nil {
		observer(ev)
	}
}

// classify maps transport errors onto the navigation error taxonomy.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", port.ErrNavCancelled, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", port.ErrNavTimeout, err)
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", port.ErrNavConnectivity, err)
	}
	return err
}
