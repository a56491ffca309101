package session

import (
	"context"
	"encoding/json"

	"github.com/strataview/strata/internal/application/port"
	"github.com/strataview/strata/internal/domain/entity"
	"github.com/strataview/strata/internal/logging"
)

// Storage keys. Each key is serialized and loaded independently so that a
// corrupt blob only loses its own collection.
const (
	keyTabs        = "tabs"
	keyActiveTab   = "active_tab"
	keyActiveSpace = "active_space"
	keySpaces      = "spaces"
	keyFolders     = "folders"
	keyBookmarks   = "bookmarks"
	keyHistory     = "history"
)

// save persists all durable state. Tabs are stored as TabRecord values only,
// so ephemeral fields (loading flag, favicon) cannot leak into storage.
// Encoding happens under the model lock: the entity pointers are shared with
// the owner thread, so marshaling them unlocked would race a concurrent
// mutation. Only the store writes run outside the lock.
// Persistence failures are logged and do not fail the originating mutation.
func (m *Model) save(ctx context.Context) {
	if m.store == nil {
		return
	}
	log := logging.FromContext(ctx)

	m.mu.Lock()
	records := make([]entity.TabRecord, 0, m.tabs.Count())
	for _, tab := range m.tabs.Tabs {
		records = append(records, tab.TabRecord)
	}
	blobs := make(map[string][]byte, 7)
	for key, value := range map[string]any{
		keyTabs:        records,
		keyActiveTab:   m.activeTabID,
		keyActiveSpace: m.activeSpaceID,
		keySpaces:      m.spaces.Spaces,
		keyFolders:     m.folders,
		keyBookmarks:   m.bookmarks,
		keyHistory:     m.history.Entries,
	} {
		data, err := json.Marshal(value)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to encode session state")
			continue
		}
		blobs[key] = data
	}
	m.mu.Unlock()

	for key, data := range blobs {
		if err := m.store.Set(key, data); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to persist session state")
		}
	}
}

// Load restores durable state from the store. A missing or corrupt blob for
// one key falls back to that key's empty default without affecting the
// others. Ephemeral tab fields always start zeroed. Ensures at least one
// space exists, synthesizing the default space on first run.
func (m *Model) Load(ctx context.Context) error {
	log := logging.FromContext(ctx)

	var records []entity.TabRecord
	loadKey(ctx, m.store, keyTabs, &records)

	var spaces []*entity.Space
	loadKey(ctx, m.store, keySpaces, &spaces)

	var folders []*entity.Folder
	loadKey(ctx, m.store, keyFolders, &folders)

	var bookmarks []*entity.Bookmark
	loadKey(ctx, m.store, keyBookmarks, &bookmarks)

	var historyEntries []*entity.HistoryEntry
	loadKey(ctx, m.store, keyHistory, &historyEntries)

	var activeTab entity.TabID
	loadKey(ctx, m.store, keyActiveTab, &activeTab)

	var activeSpace entity.SpaceID
	loadKey(ctx, m.store, keyActiveSpace, &activeSpace)

	m.mu.Lock()

	m.spaces = entity.NewSpaceList()
	for _, s := range spaces {
		if s != nil && s.ID != "" {
			m.spaces.Add(s)
		}
	}
	firstRun := m.spaces.Count() == 0
	if firstRun {
		m.spaces.Add(entity.NewSpace(entity.SpaceID(m.idGen()), m.opts.DefaultSpaceName))
	}

	m.tabs = entity.NewTabList()
	for _, rec := range records {
		if rec.ID == "" {
			continue
		}
		// Drop tabs whose space no longer exists rather than violating the
		// space reference invariant.
		if m.spaces.Find(rec.SpaceID) == nil {
			log.Warn().Str("tab_id", string(rec.ID)).Str("space_id", string(rec.SpaceID)).
				Msg("dropping restored tab with unknown space")
			continue
		}
		m.tabs.Add(entity.RestoreTab(rec))
	}

	m.folders = m.folders[:0]
	for _, f := range folders {
		if f != nil && f.ID != "" {
			m.folders = append(m.folders, f)
		}
	}

	m.bookmarks = m.bookmarks[:0]
	for _, b := range bookmarks {
		if b != nil && b.ID != "" {
			m.bookmarks = append(m.bookmarks, b)
		}
	}

	m.history = entity.RestoreHistoryList(historyEntries, m.opts.HistoryMax)

	if m.spaces.Find(activeSpace) != nil {
		m.activeSpaceID = activeSpace
	} else {
		m.activeSpaceID = m.spaces.First().ID
	}
	if m.tabs.Find(activeTab) != nil {
		m.activeTabID = activeTab
	} else if tabs := m.tabs.InSpace(m.activeSpaceID); len(tabs) > 0 {
		m.activeTabID = tabs[0].ID
	} else {
		m.activeTabID = ""
	}

	restored := make([]*entity.Tab, len(m.tabs.Tabs))
	copy(restored, m.tabs.Tabs)
	m.mu.Unlock()

	// Favicons are never persisted; refetch best-effort on restore.
	for _, tab := range restored {
		m.fetchFavicon(ctx, tab.ID, tab.URL)
	}

	if firstRun {
		m.save(ctx)
	}

	log.Info().
		Int("tabs", len(restored)).
		Int("spaces", m.spaces.Count()).
		Int("history", m.HistoryCount()).
		Msg("session state loaded")

	return nil
}

// loadKey unmarshals one storage key into dst, leaving dst untouched on a
// missing key and logging (not failing) on a corrupt one.
func loadKey(ctx context.Context, store port.BlobStore, key string, dst any) {
	if store == nil {
		return
	}
	log := logging.FromContext(ctx)

	data, found, err := store.Get(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to load session state, using default")
		return
	}
	if !found {
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("corrupt session state blob, using default")
	}
}
