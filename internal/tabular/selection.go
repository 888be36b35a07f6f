package tabular

import "sort"

// Selection tracks selected row keys plus the most recent visible-page key
// list supplied to a select-all style call. The tri-state indicators are
// scoped to that snapshot, not the full dataset: selecting everything on one
// page and navigating away does not mark other pages' checkboxes.
//
// The key set is never cleared implicitly; only DeselectAll empties it.
type Selection struct {
	keys     map[string]struct{}
	snapshot []string
}

// NewSelection creates an empty selection, optionally pre-populated with
// already-selected keys.
func NewSelection(selected ...string) *Selection {
	s := &Selection{keys: make(map[string]struct{}, len(selected))}
	for _, k := range selected {
		s.keys[k] = struct{}{}
	}
	return s
}

// Has reports whether key is selected.
func (s *Selection) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Toggle flips membership of a single key.
func (s *Selection) Toggle(key string) {
	if _, ok := s.keys[key]; ok {
		delete(s.keys, key)
		return
	}
	s.keys[key] = struct{}{}
}

// SelectAll unions ids into the selection and records ids as the visible
// page snapshot.
func (s *Selection) SelectAll(ids []string) {
	for _, id := range ids {
		s.keys[id] = struct{}{}
	}
	s.recordSnapshot(ids)
}

// ToggleSelectAll removes all of ids when every one is already selected,
// and adds all of them otherwise. Either way ids becomes the visible page
// snapshot. Applying it twice with the same ids restores the prior state.
func (s *Selection) ToggleSelectAll(ids []string) {
	if s.allOf(ids) {
		for _, id := range ids {
			delete(s.keys, id)
		}
	} else {
		for _, id := range ids {
			s.keys[id] = struct{}{}
		}
	}
	s.recordSnapshot(ids)
}

// DeselectAll empties the selection. The snapshot is kept; the tri-state
// simply reports nothing selected.
func (s *Selection) DeselectAll() {
	s.keys = make(map[string]struct{})
}

// AllSelected reports whether the snapshot is non-empty and every snapshot
// id is selected.
func (s *Selection) AllSelected() bool {
	return len(s.snapshot) > 0 && s.allOf(s.snapshot)
}

// PartiallySelected reports whether at least one but not all snapshot ids
// are selected.
func (s *Selection) PartiallySelected() bool {
	if len(s.snapshot) == 0 {
		return false
	}
	selected := 0
	for _, id := range s.snapshot {
		if s.Has(id) {
			selected++
		}
	}
	return selected > 0 && selected < len(s.snapshot)
}

// Count returns the number of selected keys.
func (s *Selection) Count() int {
	return len(s.keys)
}

// Keys returns the selected keys in sorted order for deterministic output.
func (s *Selection) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// allOf reports whether every id is selected. Empty input is vacuously
// false so an empty page never reads as "all selected".
func (s *Selection) allOf(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// recordSnapshot copies ids so later caller mutation cannot skew the
// tri-state.
func (s *Selection) recordSnapshot(ids []string) {
	s.snapshot = make([]string, len(ids))
	copy(s.snapshot, ids)
}
