package models

// Selection is an ordered set of item ids; insertion order is display order.
// It never holds the same id twice. Not safe for concurrent use; the
// wardrobe service guards it.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping duplicates
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	s.Replace(ids)
	return s
}

// Toggle removes id if selected, otherwise appends it.
// Returns true when id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id and reports whether it was present
func (s *Selection) Remove(id string) bool {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether id is selected
func (s *Selection) Contains(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Replace swaps the whole selection for ids
func (s *Selection) Replace(ids []string) {
	s.ids = s.ids[:0]
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		s.ids = append(s.ids, id)
	}
}

// Retain drops every id for which keep returns false
func (s *Selection) Retain(keep func(id string) bool) {
	kept := s.ids[:0]
	for _, id := range s.ids {
		if keep(id) {
			kept = append(kept, id)
		}
	}
	s.ids = kept
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.ids = nil
}

// IDs returns a copy of the selected ids in order
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected items
func (s *Selection) Len() int {
	return len(s.ids)
}

// SelectionResponse is the selection as returned to the UI
type SelectionResponse struct {
	Items  []ClothingItem `json:"items"`
	Advice string         `json:"advice,omitempty"`
}

// ToggleSelectionRequest represents the request body for toggling an item
type ToggleSelectionRequest struct {
	ID string `json:"id"`
}

// ToggleSelectionResponse reports the toggled item's state and the resulting selection
type ToggleSelectionResponse struct {
	Selected  bool              `json:"selected"`
	Selection SelectionResponse `json:"selection"`
}
