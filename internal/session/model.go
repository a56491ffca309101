// Package session owns the browsing session state: spaces, tabs, folders,
// bookmarks, and history. All mutations are serialized through the model's
// lock; background work (favicon fetch, navigation events) re-enters through
// exported methods and never touches the collections directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strataview/strata/internal/application/port"
	"github.com/strataview/strata/internal/domain/entity"
	domainurl "github.com/strataview/strata/internal/domain/url"
	"github.com/strataview/strata/internal/logging"
	"github.com/strataview/strata/internal/renderpool"
)

// Model invariant violations are rejected as no-ops with these errors.
var (
	ErrLastSpace     = errors.New("cannot delete the last remaining space")
	ErrSpaceNotFound = errors.New("space not found")
	ErrTabNotFound   = errors.New("tab not found")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() string

// Options configures a session model.
type Options struct {
	HomeURL          string
	DefaultSpaceName string
	HistoryMax       int

	Store       port.BlobStore
	Factory     port.RenderingContextFactory
	Downloads   port.DownloadHandler
	Favicons    port.FaviconSource
	IDGenerator IDGenerator
}

// Model is the session-state aggregate. It owns the entity collections and
// the rendering-context pool.
type Model struct {
	mu sync.Mutex

	opts  Options
	idGen IDGenerator
	store port.BlobStore
	pool  *renderpool.Pool

	spaces    *entity.SpaceList
	tabs      *entity.TabList
	folders   []*entity.Folder
	bookmarks []*entity.Bookmark
	history   *entity.HistoryList

	activeTabID   entity.TabID
	activeSpaceID entity.SpaceID
}

// NewModel creates an empty session model. Call Load to restore persisted
// state (and to synthesize the default space on first run).
func NewModel(opts Options) *Model {
	if opts.DefaultSpaceName == "" {
		opts.DefaultSpaceName = "Personal"
	}
	idGen := opts.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}

	m := &Model{
		opts:      opts,
		idGen:     idGen,
		store:     opts.Store,
		spaces:    entity.NewSpaceList(),
		tabs:      entity.NewTabList(),
		folders:   make([]*entity.Folder, 0),
		bookmarks: make([]*entity.Bookmark, 0),
		history:   entity.NewHistoryList(opts.HistoryMax),
	}
	m.pool = renderpool.New(opts.Factory, m, opts.Downloads)
	return m
}

// Pool exposes the rendering-context pool, for callers that drive handles
// directly (reload, stop, history navigation).
func (m *Model) Pool() *renderpool.Pool {
	return m.pool
}

// CreateTab opens a new tab. URL defaults to the configured home URL and
// spaceID to the active space (or the first space). The new tab becomes
// active and a rendering context is requested for it.
func (m *Model) CreateTab(ctx context.Context, rawURL string, spaceID entity.SpaceID) (*entity.Tab, error) {
	log := logging.FromContext(ctx)

	if rawURL == "" {
		rawURL = m.opts.HomeURL
	}
	rawURL = domainurl.Normalize(rawURL)

	m.mu.Lock()
	if spaceID == "" {
		spaceID = m.activeSpaceID
	}
	if spaceID == "" {
		if first := m.spaces.First(); first != nil {
			spaceID = first.ID
		}
	}
	if m.spaces.Find(spaceID) == nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("create tab: %w: %s", ErrSpaceNotFound, spaceID)
	}

	tab := entity.NewTab(entity.TabID(m.idGen()), rawURL, spaceID)
	m.tabs.Add(tab)
	m.activeTabID = tab.ID
	m.mu.Unlock()

	if _, err := m.pool.Acquire(ctx, tab.ID, rawURL); err != nil {
		log.Warn().Err(err).Str("tab_id", string(tab.ID)).Msg("failed to acquire rendering context")
	}
	m.fetchFavicon(ctx, tab.ID, rawURL)
	m.save(ctx)

	log.Info().
		Str("tab_id", string(tab.ID)).
		Str("space_id", string(spaceID)).
		Str("url", rawURL).
		Msg("tab created")

	return tab, nil
}

// CloseTab removes the tab and releases its rendering context. When the
// closed tab was active, the replacement is chosen only from tabs in the
// same space, falling back to no active tab if the space is now empty.
func (m *Model) CloseTab(ctx context.Context, id entity.TabID) error {
	log := logging.FromContext(ctx)

	m.mu.Lock()
	tab := m.tabs.Find(id)
	if tab == nil {
		m.mu.Unlock()
		return fmt.Errorf("close tab: %w: %s", ErrTabNotFound, id)
	}

	spaceID := tab.SpaceID
	wasActive := m.activeTabID == id

	siblings := m.tabs.InSpace(spaceID)
	closedIdx := 0
	for i, t := range siblings {
		if t.ID == id {
			closedIdx = i
			break
		}
	}

	m.tabs.Remove(id)

	if wasActive {
		remaining := m.tabs.InSpace(spaceID)
		if len(remaining) == 0 {
			m.activeTabID = ""
		} else {
			next := closedIdx
			if next >= len(remaining) {
				next = len(remaining) - 1
			}
			m.activeTabID = remaining[next].ID
		}
	}
	m.mu.Unlock()

	m.pool.Release(id)
	m.save(ctx)

	log.Info().
		Str("tab_id", string(id)).
		Str("new_active", string(m.ActiveTabID())).
		Msg("tab closed")

	return nil
}

// SelectTab makes the tab active.
func (m *Model) SelectTab(ctx context.Context, id entity.TabID) error {
	m.mu.Lock()
	tab := m.tabs.Find(id)
	if tab == nil {
		m.mu.Unlock()
		return fmt.Errorf("select tab: %w: %s", ErrTabNotFound, id)
	}
	m.activeTabID = id
	m.activeSpaceID = tab.SpaceID
	m.mu.Unlock()

	m.save(ctx)
	return nil
}

// MoveTab repositions a tab in the global tab order.
func (m *Model) MoveTab(ctx context.Context, id entity.TabID, newPos int) error {
	m.mu.Lock()
	ok := m.tabs.Move(id, newPos)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("move tab: %w: %s", ErrTabNotFound, id)
	}
	m.save(ctx)
	return nil
}

// PinTab sets the pin flag on a tab.
func (m *Model) PinTab(ctx context.Context, id entity.TabID, pinned bool) error {
	m.mu.Lock()
	tab := m.tabs.Find(id)
	if tab == nil {
		m.mu.Unlock()
		return fmt.Errorf("pin tab: %w: %s", ErrTabNotFound, id)
	}
	tab.IsPinned = pinned
	m.mu.Unlock()

	m.save(ctx)
	return nil
}

// SetTabFolder assigns (or clears, with an empty ID) a tab's folder.
func (m *Model) SetTabFolder(ctx context.Context, id entity.TabID, folderID entity.FolderID) error {
	m.mu.Lock()
	tab := m.tabs.Find(id)
	if tab == nil {
		m.mu.Unlock()
		return fmt.Errorf("set tab folder: %w: %s", ErrTabNotFound, id)
	}
	tab.FolderID = folderID
	m.mu.Unlock()

	m.save(ctx)
	return nil
}

// SetTabCategory assigns an externally determined category label to a tab.
func (m *Model) SetTabCategory(ctx context.Context, id entity.TabID, category string) error {
	m.mu.Lock()
	tab := m.tabs.Find(id)
	if tab == nil {
		m.mu.Unlock()
		return fmt.Errorf("set tab category: %w: %s", ErrTabNotFound, id)
	}
	tab.Category = category
	m.mu.Unlock()

	m.save(ctx)
	return nil
}

// CreateSpace creates a new space and makes it active.
func (m *Model) CreateSpace(ctx context.Context, name string) (*entity.Space, error) {
	log := logging.FromContext(ctx)

	if name == "" {
		name = m.opts.DefaultSpaceName
	}

	m.mu.Lock()
	space := entity.NewSpace(entity.SpaceID(m.idGen()), name)
	m.spaces.Add(space)
	m.activeSpaceID = space.ID
	m.activeTabID = ""
	m.mu.Unlock()

	m.save(ctx)
	log.Info().Str("space_id", string(space.ID)).Str("name", name).Msg("space created")
	return space, nil
}

// SelectSpace makes the space active, re-synchronizes every tab's ephemeral
// loading state from its live handle (recovering from observers that were
// never wired, e.g. after restart), and selects the space's first tab.
func (m *Model) SelectSpace(ctx context.Context, id entity.SpaceID) error {
	m.mu.Lock()
	if m.spaces.Find(id) == nil {
		m.mu.Unlock()
		return fmt.Errorf("select space: %w: %s", ErrSpaceNotFound, id)
	}
	m.activeSpaceID = id

	tabs := m.tabs.InSpace(id)
	for _, tab := range tabs {
		if handle, ok := m.pool.Get(tab.ID); ok {
			tab.IsLoading = handle.IsLoading()
			tab.CanGoBack = handle.CanGoBack()
			tab.CanGoForward = handle.CanGoForward()
		} else {
			tab.IsLoading = false
		}
	}

	if len(tabs) > 0 {
		m.activeTabID = tabs[0].ID
	} else {
		m.activeTabID = ""
	}
	m.mu.Unlock()

	m.save(ctx)
	return nil
}

// DeleteSpace removes a space. Deleting the last remaining space is
// forbidden; otherwise its tabs are reassigned to the first other space.
func (m *Model) DeleteSpace(ctx context.Context, id entity.SpaceID) error {
	log := logging.FromContext(ctx)

	m.mu.Lock()
	if m.spaces.Find(id) == nil {
		m.mu.Unlock()
		return fmt.Errorf("delete space: %w: %s", ErrSpaceNotFound, id)
	}
	if m.spaces.Count() == 1 {
		m.mu.Unlock()
		return ErrLastSpace
	}

	target := m.spaces.FirstOther(id)
	for _, tab := range m.tabs.InSpace(id) {
		tab.SpaceID = target.ID
		tab.FolderID = ""
	}
	m.spaces.Remove(id)

	if m.activeSpaceID == id {
		m.activeSpaceID = target.ID
	}
	m.mu.Unlock()

	m.save(ctx)
	log.Info().
		Str("space_id", string(id)).
		Str("reassigned_to", string(target.ID)).
		Msg("space deleted")
	return nil
}

// CreateFolder creates a folder in the given space.
func (m *Model) CreateFolder(ctx context.Context, name string, spaceID entity.SpaceID) (*entity.Folder, error) {
	m.mu.Lock()
	if m.spaces.Find(spaceID) == nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("create folder: %w: %s", ErrSpaceNotFound, spaceID)
	}
	folder := entity.NewFolder(entity.FolderID(m.idGen()), name, spaceID)
	folder.SortOrder = len(m.folders)
	m.folders = append(m.folders, folder)
	m.mu.Unlock()

	m.save(ctx)
	return folder, nil
}

// ToggleFolder flips a folder's expanded flag.
func (m *Model) ToggleFolder(ctx context.Context, id entity.FolderID) error {
	m.mu.Lock()
	var folder *entity.Folder
	for _, f := range m.folders {
		if f.ID == id {
			folder = f
			break
		}
	}
	if folder == nil {
		m.mu.Unlock()
		return fmt.Errorf("toggle folder: folder not found: %s", id)
	}
	folder.Expanded = !folder.Expanded
	m.mu.Unlock()

	m.save(ctx)
	return nil
}

// AddBookmark saves a URL as a bookmark.
func (m *Model) AddBookmark(ctx context.Context, rawURL, title string) (*entity.Bookmark, error) {
	bookmark := entity.NewBookmark(entity.BookmarkID(m.idGen()), domainurl.Normalize(rawURL), title)

	m.mu.Lock()
	m.bookmarks = append(m.bookmarks, bookmark)
	m.mu.Unlock()

	m.save(ctx)
	return bookmark, nil
}

// RemoveBookmark deletes a bookmark by ID.
func (m *Model) RemoveBookmark(ctx context.Context, id entity.BookmarkID) error {
	m.mu.Lock()
	found := false
	for i, b := range m.bookmarks {
		if b.ID == id {
			m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
			found = true
			break
		}
	}
	m.mu.Unlock()

	if !found {
		return fmt.Errorf("remove bookmark: bookmark not found: %s", id)
	}
	m.save(ctx)
	return nil
}

// RecordVisit registers a visit in history. Visit counting for the same URL
// is atomic under the model lock.
func (m *Model) RecordVisit(ctx context.Context, rawURL, title string, typed bool) *entity.HistoryEntry {
	m.mu.Lock()
	entry := m.history.Visit(m.idGen(), rawURL, title, typed, time.Now())
	m.mu.Unlock()

	m.save(ctx)
	return entry
}

// --- read accessors -------------------------------------------------------

// ActiveTab returns the active tab, or nil.
func (m *Model) ActiveTab() *entity.Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabs.Find(m.activeTabID)
}

// ActiveTabID returns the active tab's ID, or the empty ID.
func (m *Model) ActiveTabID() entity.TabID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeTabID
}

// ActiveSpaceID returns the active space's ID.
func (m *Model) ActiveSpaceID() entity.SpaceID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeSpaceID
}

// Spaces returns the spaces in order.
func (m *Model) Spaces() []*entity.Space {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Space, len(m.spaces.Spaces))
	copy(out, m.spaces.Spaces)
	return out
}

// TabsInSpace returns the tabs of a space in list order.
func (m *Model) TabsInSpace(id entity.SpaceID) []*entity.Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabs.InSpace(id)
}

// FindTab returns a tab by ID, or nil.
func (m *Model) FindTab(id entity.TabID) *entity.Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tabs.Find(id)
}

// Bookmarks returns all bookmarks in creation order.
func (m *Model) Bookmarks() []*entity.Bookmark {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Bookmark, len(m.bookmarks))
	copy(out, m.bookmarks)
	return out
}

// Folders returns all folders.
func (m *Model) Folders() []*entity.Folder {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Folder, len(m.folders))
	copy(out, m.folders)
	return out
}

// RecentHistory returns up to n history entries, most recent first.
func (m *Model) RecentHistory(n int) []*entity.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Recent(n)
}

// HistoryCount returns the number of history entries.
func (m *Model) HistoryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.Count()
}

// --- renderpool.Events ----------------------------------------------------

// LoadingStarted marks the tab as loading.
func (m *Model) LoadingStarted(tabID entity.TabID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tab := m.tabs.Find(tabID); tab != nil {
		tab.IsLoading = true
	}
}

// LoadingFinished synchronizes the tab's metadata from the resolved page
// state, appends the visit to history, and refreshes the favicon when the
// hostname changed.
func (m *Model) LoadingFinished(tabID entity.TabID, title, url string, canGoBack, canGoForward bool) {
	ctx := context.Background()

	m.mu.Lock()
	tab := m.tabs.Find(tabID)
	if tab == nil {
		m.mu.Unlock()
		return
	}
	hostChanged := domainurl.ExtractHostname(tab.URL) != domainurl.ExtractHostname(url)
	tab.Title = title
	tab.URL = url
	tab.IsLoading = false
	tab.CanGoBack = canGoBack
	tab.CanGoForward = canGoForward
	m.history.Visit(m.idGen(), url, title, false, time.Now())
	m.mu.Unlock()

	if hostChanged {
		m.fetchFavicon(ctx, tabID, url)
	}
	m.save(ctx)
}

// LoadingFailed resets the tab's loading flag. A nil error is a swallowed
// cancellation.
func (m *Model) LoadingFailed(tabID entity.TabID, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tab := m.tabs.Find(tabID); tab != nil {
		tab.IsLoading = false
	}
}

// fetchFavicon fetches a tab's favicon in the background. Fire-and-forget:
// failures are dropped without retry and never block any other operation.
func (m *Model) fetchFavicon(ctx context.Context, tabID entity.TabID, rawURL string) {
	if m.opts.Favicons == nil {
		return
	}
	hostname := domainurl.ExtractHostname(rawURL)
	if hostname == "" {
		return
	}

	go func() {
		data, err := m.opts.Favicons.Fetch(ctx, hostname)
		if err != nil || len(data) == 0 {
			return
		}
		m.mu.Lock()
		if tab := m.tabs.Find(tabID); tab != nil {
			tab.Favicon = data
		}
		m.mu.Unlock()
	}()
}
