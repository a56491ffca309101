package entity

import "time"

// TabID uniquely identifies a tab.
type TabID string

// TabRecord holds the durable fields of a tab. This is the only part of a
// tab that is ever serialized; ephemeral state lives on Tab. Keeping the
// split structural means serialization cannot leak runtime-only fields.
type TabRecord struct {
	ID        TabID     `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	IsPinned  bool      `json:"is_pinned"`
	SpaceID   SpaceID   `json:"space_id"`
	FolderID  FolderID  `json:"folder_id,omitempty"`
	SortOrder int       `json:"sort_order"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Tab represents a live browser tab: the durable record plus runtime state
// that is meaningless across a process restart (loading flag, favicon,
// back/forward capability reported by the rendering context).
type Tab struct {
	TabRecord

	IsLoading    bool
	CanGoBack    bool
	CanGoForward bool
	Favicon      []byte
}

// NewTab creates a new live tab in the given space.
func NewTab(id TabID, url string, spaceID SpaceID) *Tab {
	return &Tab{
		TabRecord: TabRecord{
			ID:        id,
			URL:       url,
			SpaceID:   spaceID,
			CreatedAt: time.Now(),
		},
	}
}

// RestoreTab reconstructs a live tab from its durable record. Ephemeral
// fields always start zeroed regardless of what the process saw before
// serialization.
func RestoreTab(rec TabRecord) *Tab {
	return &Tab{TabRecord: rec}
}

// DisplayTitle returns the title for UI purposes, falling back to URL.
func (t *Tab) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if t.URL != "" {
		return t.URL
	}
	return "New Tab"
}

// TabList manages an ordered collection of tabs across all spaces.
type TabList struct {
	Tabs []*Tab
}

// NewTabList creates an empty tab list.
func NewTabList() *TabList {
	return &TabList{Tabs: make([]*Tab, 0)}
}

// Add appends a tab to the list and assigns its sort order.
func (tl *TabList) Add(tab *Tab) {
	tab.SortOrder = len(tl.Tabs)
	tl.Tabs = append(tl.Tabs, tab)
}

// Remove removes a tab by ID and reindexes sort orders.
func (tl *TabList) Remove(id TabID) bool {
	for i, tab := range tl.Tabs {
		if tab.ID == id {
			tl.Tabs = append(tl.Tabs[:i], tl.Tabs[i+1:]...)
			for j := i; j < len(tl.Tabs); j++ {
				tl.Tabs[j].SortOrder = j
			}
			return true
		}
	}
	return false
}

// Find returns a tab by ID, or nil.
func (tl *TabList) Find(id TabID) *Tab {
	for _, tab := range tl.Tabs {
		if tab.ID == id {
			return tab
		}
	}
	return nil
}

// InSpace returns all tabs belonging to the given space, in list order.
func (tl *TabList) InSpace(spaceID SpaceID) []*Tab {
	var tabs []*Tab
	for _, tab := range tl.Tabs {
		if tab.SpaceID == spaceID {
			tabs = append(tabs, tab)
		}
	}
	return tabs
}

// Count returns the number of tabs.
func (tl *TabList) Count() int {
	return len(tl.Tabs)
}

// Move moves a tab to a new position and reindexes all sort orders.
func (tl *TabList) Move(id TabID, newPos int) bool {
	if newPos < 0 || newPos >= len(tl.Tabs) {
		return false
	}
	var tab *Tab
	var oldPos int
	for i, t := range tl.Tabs {
		if t.ID == id {
			tab = t
			oldPos = i
			break
		}
	}
	if tab == nil {
		return false
	}
	tl.Tabs = append(tl.Tabs[:oldPos], tl.Tabs[oldPos+1:]...)
	tl.Tabs = append(tl.Tabs[:newPos], append([]*Tab{tab}, tl.Tabs[newPos:]...)...)
	for i := range tl.Tabs {
		tl.Tabs[i].SortOrder = i
	}
	return true
}
