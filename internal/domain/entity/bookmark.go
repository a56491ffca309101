package entity

import "time"

// BookmarkID uniquely identifies a bookmark.
type BookmarkID string

// Bookmark is a saved URL. Immutable once created except for removal.
type Bookmark struct {
	ID        BookmarkID `json:"id"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	FolderID  FolderID   `json:"folder_id,omitempty"`
}

// NewBookmark creates a new bookmark.
func NewBookmark(id BookmarkID, url, title string) *Bookmark {
	return &Bookmark{
		ID:        id,
		URL:       url,
		Title:     title,
		CreatedAt: time.Now(),
	}
}
