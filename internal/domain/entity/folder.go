package entity

// FolderID uniquely identifies a folder.
type FolderID string

// Folder groups tabs for display within a space. Membership is expressed by
// the tab's FolderID, which is optional.
type Folder struct {
	ID        FolderID `json:"id"`
	Name      string   `json:"name"`
	Expanded  bool     `json:"expanded"`
	SpaceID   SpaceID  `json:"space_id"`
	SortOrder int      `json:"sort_order"`
}

// NewFolder creates a new expanded folder in the given space.
func NewFolder(id FolderID, name string, spaceID SpaceID) *Folder {
	return &Folder{
		ID:       id,
		Name:     name,
		Expanded: true,
		SpaceID:  spaceID,
	}
}
