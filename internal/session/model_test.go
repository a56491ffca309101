package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataview/strata/internal/application/port"
	"github.com/strataview/strata/internal/persistence/memory"
	"github.com/strataview/strata/internal/session"
)

type fakeContext struct {
	mu           sync.Mutex
	observer     func(port.NavigationEvent)
	loaded       []string
	closed       bool
	isLoading    bool
	canGoBack    bool
	canGoForward bool
}

func (f *fakeContext) Load(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = append(f.loaded, url)
}
func (f *fakeContext) Reload()    {}
func (f *fakeContext) Stop()      {}
func (f *fakeContext) GoBack()    {}
func (f *fakeContext) GoForward() {}
func (f *fakeContext) CanGoBack() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canGoBack
}
func (f *fakeContext) CanGoForward() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canGoForward
}
func (f *fakeContext) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isLoading
}
func (f *fakeContext) SetObserver(fn func(port.NavigationEvent)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observer = fn
}
func (f *fakeContext) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func fakeFactory(created *[]*fakeContext) port.RenderingContextFactory {
	var mu sync.Mutex
	return func(_ context.Context, _ string) (port.RenderingContext, error) {
		handle := &fakeContext{}
		mu.Lock()
		*created = append(*created, handle)
		mu.Unlock()
		return handle, nil
	}
}

func sequentialIDs() session.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestModel(t *testing.T, store port.BlobStore) *session.Model {
	t.Helper()
	if store == nil {
		store = memory.NewStore()
	}
	var created []*fakeContext
	m := session.NewModel(session.Options{
		HomeURL:          "https://start.example",
		DefaultSpaceName: "Personal",
		HistoryMax:       50,
		Store:            store,
		Factory:          fakeFactory(&created),
		IDGenerator:      sequentialIDs(),
	})
	require.NoError(t, m.Load(context.Background()))
	return m
}

func TestModel_LoadSynthesizesDefaultSpace(t *testing.T) {
	m := newTestModel(t, nil)

	spaces := m.Spaces()
	require.Len(t, spaces, 1)
	assert.Equal(t, "Personal", spaces[0].Name)
	assert.Equal(t, spaces[0].ID, m.ActiveSpaceID())
	assert.Empty(t, m.ActiveTabID())
}

func TestModel_CreateTabDefaults(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	tab, err := m.CreateTab(ctx, "", "")
	require.NoError(t, err)

	assert.Equal(t, "https://start.example", tab.URL)
	assert.Equal(t, m.ActiveSpaceID(), tab.SpaceID)
	assert.Equal(t, tab.ID, m.ActiveTabID())
	assert.Equal(t, 1, m.Pool().Size())
}

func TestModel_CreateTabNormalizesURL(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	tab, err := m.CreateTab(ctx, "example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", tab.URL)
}

func TestModel_CreateTabUnknownSpace(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	_, err := m.CreateTab(ctx, "https://example.com", "ghost")
	require.ErrorIs(t, err, session.ErrSpaceNotFound)
	assert.Empty(t, m.TabsInSpace("ghost"))
}

func TestModel_CloseTab_SuccessorStaysInSpace(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)
	spaceA := m.ActiveSpaceID()

	a1, err := m.CreateTab(ctx, "https://a1.example", spaceA)
	require.NoError(t, err)
	a2, err := m.CreateTab(ctx, "https://a2.example", spaceA)
	require.NoError(t, err)
	a3, err := m.CreateTab(ctx, "https://a3.example", spaceA)
	require.NoError(t, err)

	spaceB, err := m.CreateSpace(ctx, "Work")
	require.NoError(t, err)
	_, err = m.CreateTab(ctx, "https://b1.example", spaceB.ID)
	require.NoError(t, err)

	// Close the middle tab of space A while it is active: the successor is
	// the tab that took its position.
	require.NoError(t, m.SelectTab(ctx, a2.ID))
	require.NoError(t, m.CloseTab(ctx, a2.ID))
	assert.Equal(t, a3.ID, m.ActiveTabID())

	require.NoError(t, m.CloseTab(ctx, a3.ID))
	assert.Equal(t, a1.ID, m.ActiveTabID())

	// Closing the last tab of the space never steals a tab from space B.
	require.NoError(t, m.CloseTab(ctx, a1.ID))
	assert.Empty(t, m.ActiveTabID())
}

func TestModel_CloseTab_InactiveKeepsActive(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	t1, err := m.CreateTab(ctx, "https://one.example", "")
	require.NoError(t, err)
	t2, err := m.CreateTab(ctx, "https://two.example", "")
	require.NoError(t, err)

	require.NoError(t, m.CloseTab(ctx, t1.ID))
	assert.Equal(t, t2.ID, m.ActiveTabID())
}

func TestModel_CloseTab_NotFound(t *testing.T) {
	m := newTestModel(t, nil)
	err := m.CloseTab(context.Background(), "missing")
	require.ErrorIs(t, err, session.ErrTabNotFound)
}

func TestModel_CloseTab_ReleasesHandle(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	tab, err := m.CreateTab(ctx, "https://example.com", "")
	require.NoError(t, err)
	require.Equal(t, 1, m.Pool().Size())

	require.NoError(t, m.CloseTab(ctx, tab.ID))
	assert.Equal(t, 0, m.Pool().Size())
}

func TestModel_DeleteSpace_LastIsRejected(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	before := len(m.Spaces())
	err := m.DeleteSpace(ctx, m.ActiveSpaceID())
	require.ErrorIs(t, err, session.ErrLastSpace)
	assert.Equal(t, before, len(m.Spaces()))
}

func TestModel_DeleteSpace_ReassignsTabs(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)
	home := m.ActiveSpaceID()

	work, err := m.CreateSpace(ctx, "Work")
	require.NoError(t, err)
	tab, err := m.CreateTab(ctx, "https://work.example", work.ID)
	require.NoError(t, err)

	folder, err := m.CreateFolder(ctx, "Projects", work.ID)
	require.NoError(t, err)
	require.NoError(t, m.SetTabFolder(ctx, tab.ID, folder.ID))

	require.NoError(t, m.DeleteSpace(ctx, work.ID))

	assert.Len(t, m.Spaces(), 1)
	assert.Equal(t, home, m.ActiveSpaceID())
	moved := m.FindTab(tab.ID)
	require.NotNil(t, moved)
	assert.Equal(t, home, moved.SpaceID)
	// The folder belonged to the deleted space; the reference must not
	// survive the move.
	assert.Empty(t, moved.FolderID)
}

func TestModel_DeleteSpace_NotFound(t *testing.T) {
	m := newTestModel(t, nil)
	err := m.DeleteSpace(context.Background(), "ghost")
	require.ErrorIs(t, err, session.ErrSpaceNotFound)
}

func TestModel_SelectSpace_SyncsEphemeralState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var created []*fakeContext
	m := session.NewModel(session.Options{
		HomeURL:          "https://start.example",
		DefaultSpaceName: "Personal",
		Store:            store,
		Factory:          fakeFactory(&created),
		IDGenerator:      sequentialIDs(),
	})
	require.NoError(t, m.Load(ctx))

	tab, err := m.CreateTab(ctx, "https://example.com", "")
	require.NoError(t, err)
	require.Len(t, created, 1)

	// The model believes the tab is loading, but the live handle disagrees.
	m.LoadingStarted(tab.ID)
	require.True(t, m.FindTab(tab.ID).IsLoading)
	created[0].mu.Lock()
	created[0].isLoading = false
	created[0].canGoBack = true
	created[0].mu.Unlock()

	require.NoError(t, m.SelectSpace(ctx, m.ActiveSpaceID()))

	synced := m.FindTab(tab.ID)
	assert.False(t, synced.IsLoading)
	assert.True(t, synced.CanGoBack)
	assert.Equal(t, tab.ID, m.ActiveTabID())
}

func TestModel_SelectTab_SwitchesSpace(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	work, err := m.CreateSpace(ctx, "Work")
	require.NoError(t, err)
	tab, err := m.CreateTab(ctx, "https://work.example", work.ID)
	require.NoError(t, err)

	home := m.Spaces()[0]
	require.NoError(t, m.SelectSpace(ctx, home.ID))
	require.NoError(t, m.SelectTab(ctx, tab.ID))

	assert.Equal(t, work.ID, m.ActiveSpaceID())
	assert.Equal(t, tab.ID, m.ActiveTabID())
}

func TestModel_LoadingFinished_SyncsTabAndHistory(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	tab, err := m.CreateTab(ctx, "https://example.com", "")
	require.NoError(t, err)
	m.LoadingStarted(tab.ID)

	m.LoadingFinished(tab.ID, "Example Domain", "https://example.com/landed", true, false)

	updated := m.FindTab(tab.ID)
	assert.Equal(t, "Example Domain", updated.Title)
	assert.Equal(t, "https://example.com/landed", updated.URL)
	assert.False(t, updated.IsLoading)
	assert.True(t, updated.CanGoBack)

	recent := m.RecentHistory(5)
	require.NotEmpty(t, recent)
	assert.Equal(t, "https://example.com/landed", recent[0].URL)
	assert.EqualValues(t, 0, recent[0].TypedCount)
}

func TestModel_LoadingFailed_ResetsLoading(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	tab, err := m.CreateTab(ctx, "https://example.com", "")
	require.NoError(t, err)
	m.LoadingStarted(tab.ID)

	m.LoadingFailed(tab.ID, nil)
	assert.False(t, m.FindTab(tab.ID).IsLoading)
}

func TestModel_RecordVisit(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	first := m.RecordVisit(ctx, "https://example.com", "Example", true)
	assert.EqualValues(t, 1, first.VisitCount)
	assert.EqualValues(t, 1, first.TypedCount)

	second := m.RecordVisit(ctx, "https://example.com", "Example", false)
	assert.Same(t, first, second)
	assert.EqualValues(t, 2, second.VisitCount)
	assert.EqualValues(t, 1, second.TypedCount)
	assert.Equal(t, 1, m.HistoryCount())
}

func TestModel_Bookmarks(t *testing.T) {
	ctx := context.Background()
	m := newTestModel(t, nil)

	b, err := m.AddBookmark(ctx, "example.com", "Example")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", b.URL)
	require.Len(t, m.Bookmarks(), 1)

	require.NoError(t, m.RemoveBookmark(ctx, b.ID))
	assert.Empty(t, m.Bookmarks())

	err = m.RemoveBookmark(ctx, b.ID)
	assert.Error(t, err)
}
