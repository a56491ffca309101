package entity

import "time"

// SpaceID uniquely identifies a space.
type SpaceID string

// SpaceTheme holds the presentation parameters of a space. The engine only
// stores these; rendering them is up to the UI layer.
type SpaceTheme struct {
	Color string `json:"color"`
	Mode  string `json:"mode"` // "light" or "dark"
}

// Space is a workspace grouping tabs and folders. Tabs reference their space
// by ID; a space does not contain its tabs.
type Space struct {
	ID        SpaceID    `json:"id"`
	Name      string     `json:"name"`
	Icon      string     `json:"icon"`
	Theme     SpaceTheme `json:"theme"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewSpace creates a new space.
func NewSpace(id SpaceID, name string) *Space {
	return &Space{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// SpaceList manages the ordered collection of spaces.
// The invariant "at least one space exists" is enforced by the session model,
// not here; the list itself is a plain container.
type SpaceList struct {
	Spaces []*Space
}

// NewSpaceList creates an empty space list.
func NewSpaceList() *SpaceList {
	return &SpaceList{Spaces: make([]*Space, 0)}
}

// Add appends a space.
func (sl *SpaceList) Add(space *Space) {
	sl.Spaces = append(sl.Spaces, space)
}

// Remove removes a space by ID.
func (sl *SpaceList) Remove(id SpaceID) bool {
	for i, s := range sl.Spaces {
		if s.ID == id {
			sl.Spaces = append(sl.Spaces[:i], sl.Spaces[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns a space by ID, or nil.
func (sl *SpaceList) Find(id SpaceID) *Space {
	for _, s := range sl.Spaces {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// First returns the first space, or nil if empty.
func (sl *SpaceList) First() *Space {
	if len(sl.Spaces) == 0 {
		return nil
	}
	return sl.Spaces[0]
}

// FirstOther returns the first space whose ID differs from the given one.
func (sl *SpaceList) FirstOther(id SpaceID) *Space {
	for _, s := range sl.Spaces {
		if s.ID != id {
			return s
		}
	}
	return nil
}

// Count returns the number of spaces.
func (sl *SpaceList) Count() int {
	return len(sl.Spaces)
}
