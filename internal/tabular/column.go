package tabular

// Column describes one column of a list view.
//
// Key is a dot-path into the row ("status", "department.name") used for
// value extraction when filtering and sorting. Render, when set, transforms
// a row into the cell's display text; it affects presentation only and is
// never consulted for comparison or filtering.
type Column[T any] struct {
	Key      string
	Header   string
	Sortable bool
	Width    int // rendering hint, 0 = auto
	Render   func(T) string
}
