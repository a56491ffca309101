package entity

import (
	"time"

	"github.com/strataview/strata/internal/domain/frecency"
)

// HistoryEntry represents a visited URL in browsing history.
// Invariant: VisitCount >= TypedCount >= 0.
type HistoryEntry struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	FirstVisited time.Time `json:"first_visited"`
	VisitCount   int64     `json:"visit_count"`
	LastVisited  time.Time `json:"last_visited"`
	TypedCount   int64     `json:"typed_count"`
}

// NewHistoryEntry creates a history entry for a first visit.
func NewHistoryEntry(id, url, title string, typed bool, now time.Time) *HistoryEntry {
	e := &HistoryEntry{
		ID:           id,
		URL:          url,
		Title:        title,
		FirstVisited: now,
		VisitCount:   1,
		LastVisited:  now,
	}
	if typed {
		e.TypedCount = 1
	}
	return e
}

// RecordVisit registers another visit, refreshing the recency timestamp.
// Typed visits (URL entered directly) also bump the typed counter.
func (h *HistoryEntry) RecordVisit(typed bool, now time.Time) {
	h.VisitCount++
	if typed {
		h.TypedCount++
	}
	h.LastVisited = now
}

// FrecencyAt returns the entry's frecency score evaluated at the given
// instant. The score decays continuously, so the same entry scores lower as
// time passes.
func (h *HistoryEntry) FrecencyAt(now time.Time) float64 {
	return frecency.Score(h.VisitCount, h.TypedCount, h.LastVisited, now)
}

// Frecency returns the entry's frecency score at the current instant.
func (h *HistoryEntry) Frecency() float64 {
	return h.FrecencyAt(time.Now())
}

// HistoryList is an insertion-ordered history capped at a fixed size.
// Eviction past the cap removes the oldest-inserted entries, not the
// lowest-scored ones.
type HistoryList struct {
	Entries []*HistoryEntry
	maxSize int
	byURL   map[string]*HistoryEntry
}

// DefaultHistoryMax is the default history cap.
const DefaultHistoryMax = 1000

// NewHistoryList creates an empty history list with the given cap.
// A cap of zero or below falls back to DefaultHistoryMax.
func NewHistoryList(maxSize int) *HistoryList {
	if maxSize <= 0 {
		maxSize = DefaultHistoryMax
	}
	return &HistoryList{
		Entries: make([]*HistoryEntry, 0),
		maxSize: maxSize,
		byURL:   make(map[string]*HistoryEntry),
	}
}

// RestoreHistoryList rebuilds a history list from persisted entries,
// re-applying the cap in case the stored list exceeds it.
func RestoreHistoryList(entries []*HistoryEntry, maxSize int) *HistoryList {
	hl := NewHistoryList(maxSize)
	for _, e := range entries {
		if e == nil || e.URL == "" {
			continue
		}
		hl.append(e)
	}
	return hl
}

// Visit records a visit for the URL, creating the entry on first visit.
// Returns the touched entry.
func (hl *HistoryList) Visit(id, url, title string, typed bool, now time.Time) *HistoryEntry {
	if entry, ok := hl.byURL[url]; ok {
		entry.RecordVisit(typed, now)
		if title != "" {
			entry.Title = title
		}
		return entry
	}
	entry := NewHistoryEntry(id, url, title, typed, now)
	hl.append(entry)
	return entry
}

func (hl *HistoryList) append(entry *HistoryEntry) {
	hl.Entries = append(hl.Entries, entry)
	hl.byURL[entry.URL] = entry
	for len(hl.Entries) > hl.maxSize {
		oldest := hl.Entries[0]
		hl.Entries = hl.Entries[1:]
		delete(hl.byURL, oldest.URL)
	}
}

// FindByURL returns the entry for a URL, or nil.
func (hl *HistoryList) FindByURL(url string) *HistoryEntry {
	return hl.byURL[url]
}

// Recent returns up to n entries ordered most-recently-visited first.
func (hl *HistoryList) Recent(n int) []*HistoryEntry {
	if n <= 0 {
		return nil
	}
	// Re-visits refresh LastVisited in place, so insertion order is not
	// recency order; sort a copy.
	sorted := make([]*HistoryEntry, len(hl.Entries))
	copy(sorted, hl.Entries)
	sortByLastVisited(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func sortByLastVisited(entries []*HistoryEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].LastVisited.After(entries[j-1].LastVisited); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

// Count returns the number of entries.
func (hl *HistoryList) Count() int {
	return len(hl.Entries)
}
