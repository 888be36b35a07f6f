package tabular

import "sort"

// Direction is a sort direction. The zero value means unsorted.
type Direction string

const (
	// DirectionNone marks a cleared sort.
	DirectionNone Direction = ""
	// Ascending sorts smallest first.
	Ascending Direction = "asc"
	// Descending sorts largest first.
	Descending Direction = "desc"
)

// DefaultMaxSorts is the default multi-sort depth cap.
const DefaultMaxSorts = 3

// SingleSortState holds the active column and direction of a single-column
// sort. Column is empty and Direction is DirectionNone when unsorted.
type SingleSortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// SortEntry is one priority-ordered entry of a multi-column sort.
// Priority 0 is the primary sort key; lower priorities apply first.
type SortEntry struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
	Priority  int       `json:"priority"`
}

// ToggleSingle advances a single-column sort state for a click on column.
//
// A click on a new (or no) column activates it at initial. Repeated clicks
// on the active column cycle initial -> opposite -> cleared. The cleared
// state is {Column:"", Direction:DirectionNone}.
func ToggleSingle(state SingleSortState, column string, initial Direction) SingleSortState {
	if initial == DirectionNone {
		initial = Ascending
	}

	if state.Column != column || state.Direction == DirectionNone {
		return SingleSortState{Column: column, Direction: initial}
	}
	if state.Direction == initial {
		return SingleSortState{Column: column, Direction: opposite(initial)}
	}
	return SingleSortState{}
}

// MultiSortOptions configures ToggleMulti.
type MultiSortOptions struct {
	// MaxSorts caps the entry list depth. Values < 1 fall back to
	// DefaultMaxSorts.
	MaxSorts int
	// Initial is the direction a newly added column starts at.
	// DirectionNone falls back to Descending.
	Initial Direction
	// Default is the sort to reset to when the last entry is removed.
	// Priorities of the default are renumbered on use.
	Default []SortEntry
}

// DefaultSort is the reset sort applied when a multi-sort empties out:
// primary key descending.
func DefaultSort() []SortEntry {
	return []SortEntry{{Column: "id", Direction: Descending, Priority: 0}}
}

// ToggleMulti advances a multi-column sort for a click on column and
// returns a new entry list. The input slice is never mutated.
//
// Behavior:
//   - Column absent: append at the initial direction with the next
//     priority. If that would exceed MaxSorts, the oldest entry
//     (priority 0) is evicted first.
//   - Present at the initial direction: flip direction in place.
//   - Present at the opposite direction: remove the entry; an emptied list
//     resets to the configured default.
//
// INVARIANT: priorities are contiguous 0..k-1 after every call.
func ToggleMulti(entries []SortEntry, column string, opts MultiSortOptions) []SortEntry {
	maxSorts := opts.MaxSorts
	if maxSorts < 1 {
		maxSorts = DefaultMaxSorts
	}
	initial := opts.Initial
	if initial == DirectionNone {
		initial = Descending
	}

	idx := -1
	for i, e := range entries {
		if e.Column == column {
			idx = i
			break
		}
	}

	if idx < 0 {
		next := make([]SortEntry, len(entries), len(entries)+1)
		copy(next, entries)
		if len(next)+1 > maxSorts {
			next = removeEntryAt(next, oldestIndex(next))
		}
		next = append(next, SortEntry{Column: column, Direction: initial})
		return renumber(next)
	}

	if entries[idx].Direction == initial {
		next := make([]SortEntry, len(entries))
		copy(next, entries)
		next[idx].Direction = opposite(initial)
		return next
	}

	next := removeEntryAt(append([]SortEntry(nil), entries...), idx)
	if len(next) == 0 {
		def := opts.Default
		if len(def) == 0 {
			def = DefaultSort()
		}
		return renumber(append([]SortEntry(nil), def...))
	}
	return renumber(next)
}

// SortSingle returns a stably sorted copy of rows by one column.
// A cleared state returns the input unchanged.
func SortSingle[T any](rows []T, state SingleSortState) []T {
	if state.Column == "" || state.Direction == DirectionNone {
		return rows
	}
	return SortMulti(rows, []SortEntry{{Column: state.Column, Direction: state.Direction}})
}

// SortMulti returns a stably sorted copy of rows by the given entries in
// ascending priority order. The first entry producing a non-zero comparison
// decides; full ties keep the input order.
func SortMulti[T any](rows []T, entries []SortEntry) []T {
	if len(entries) == 0 {
		return rows
	}

	ordered := make([]SortEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		for _, e := range ordered {
			av, bv := Extract(out[i], e.Column), Extract(out[j], e.Column)

			// Nullish cells sort to the end regardless of direction, so the
			// direction inversion below must not apply to them.
			aNull, bNull := isNullish(av), isNullish(bv)
			if aNull || bNull {
				if aNull && bNull {
					continue
				}
				return bNull
			}

			c := Compare(av, bv)
			if c == 0 {
				continue
			}
			if e.Direction == Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out
}

// opposite flips a direction. DirectionNone maps to itself.
func opposite(d Direction) Direction {
	switch d {
	case Ascending:
		return Descending
	case Descending:
		return Ascending
	default:
		return DirectionNone
	}
}

// oldestIndex returns the index of the entry with priority 0, or 0 when no
// entry carries it (degenerate input).
func oldestIndex(entries []SortEntry) int {
	for i, e := range entries {
		if e.Priority == 0 {
			return i
		}
	}
	return 0
}

// removeEntryAt drops the entry at i, preserving order.
func removeEntryAt(entries []SortEntry, i int) []SortEntry {
	return append(entries[:i], entries[i+1:]...)
}

// renumber rewrites priorities to the contiguous range 0..k-1, keeping the
// current relative order.
func renumber(entries []SortEntry) []SortEntry {
	for i := range entries {
		entries[i].Priority = i
	}
	return entries
}
