package tabular

import "fmt"

// Mode selects where a feature's computation happens.
type Mode string

const (
	// ModeClient computes the stage locally inside the engine.
	ModeClient Mode = "client"
	// ModeServer trusts caller-supplied, already-processed data; the engine
	// only renders and forwards change intents.
	ModeServer Mode = "server"
)

// FilterConfig enables the free-text filter feature.
type FilterConfig struct {
	Value    string
	OnChange func(value string)
	Mode     Mode
}

// SortConfig is a sealed sum type: exactly SingleSortConfig and
// MultiSortConfig implement it. The engine matches exhaustively.
type SortConfig interface {
	sortConfig()
}

// SingleSortConfig enables one-column sorting with asc/desc/clear cycling.
type SingleSortConfig struct {
	Column    string
	Direction Direction
	OnSort    func(column string, direction Direction)
	// Initial is the direction the first click on a column yields.
	// DirectionNone falls back to Ascending.
	Initial Direction
	Mode    Mode
}

func (SingleSortConfig) sortConfig() {}

// MultiSortConfig enables priority-ordered multi-column sorting with
// bounded depth and FIFO eviction.
type MultiSortConfig struct {
	Sorts    []SortEntry
	OnSort   func(sorts []SortEntry)
	MaxSorts int
	// Initial is the direction a newly added column starts at.
	// DirectionNone falls back to Descending.
	Initial Direction
	// Default is the sort restored when the last entry is removed.
	Default []SortEntry
	Mode    Mode
}

func (MultiSortConfig) sortConfig() {}

// PaginationConfig enables pagination.
type PaginationConfig struct {
	CurrentPage      int
	TotalItems       int
	PageSize         int
	PageSizeOptions  []int
	OnPageChange     func(page int)
	OnPageSizeChange func(size int)
	MaxButtons       int
	Mode             Mode
}

// SelectionConfig enables row selection. Selection has no mode; it is
// always caller-driven. Row identity comes from KeyFunc when set, otherwise
// from extracting KeyColumn.
type SelectionConfig[T any] struct {
	SelectedKeys []string
	OnChange     func(keys []string)
	KeyColumn    string
	KeyFunc      func(row T) string
}

// RowActionsConfig declares a presentation-only actions column. The engine
// carries it through to the view untouched.
type RowActionsConfig[T any] struct {
	Header string
	Width  int
	Render func(row T) string
}

// View is the computed display state for one render pass.
type View[T any] struct {
	// Rows is the final page slice after the pipeline ran.
	Rows []T
	// TotalItems counts rows after filtering (client) or as reported by the
	// caller (server pagination).
	TotalItems  int
	CurrentPage int
	TotalPages  int
	PageSize    int
	PageButtons []PageButton

	Query  string
	Single SingleSortState
	Sorts  []SortEntry

	SelectedKeys      []string
	AllSelected       bool
	PartiallySelected bool
}

// Engine composes the tabular primitives over a row collection according to
// the declared feature configs. Features are independently opt-in; a feature
// with an incoherent config (for example server-mode sort without a handler)
// silently degrades to pass-through rather than erroring. That silent
// degradation mirrors the observed product behavior; callers who need
// stricter guarantees must validate their configs up front.
//
// The engine is not safe for concurrent use. It is driven by discrete UI
// events and every operation reads the latest state and commits the next
// one atomically with respect to those events.
type Engine[T any] struct {
	columns    []Column[T]
	rows       []T
	filter     *FilterConfig
	sortCfg    SortConfig
	pagination *PaginationConfig
	selCfg     *SelectionConfig[T]
	rowActions *RowActionsConfig[T]

	query      string
	single     SingleSortState
	multi      []SortEntry
	page       int
	pageSize   int
	totalItems int
	selection  *Selection
}

// Option configures an Engine at construction.
type Option[T any] func(*Engine[T])

// WithRows supplies the initial row collection.
func WithRows[T any](rows []T) Option[T] {
	return func(e *Engine[T]) { e.rows = rows }
}

// WithFilter enables the filter feature.
func WithFilter[T any](cfg FilterConfig) Option[T] {
	return func(e *Engine[T]) {
		e.filter = &cfg
		e.query = cfg.Value
	}
}

// WithSort enables the sort feature with either a SingleSortConfig or a
// MultiSortConfig.
func WithSort[T any](cfg SortConfig) Option[T] {
	return func(e *Engine[T]) {
		e.sortCfg = cfg
		switch c := cfg.(type) {
		case SingleSortConfig:
			e.single = SingleSortState{Column: c.Column, Direction: c.Direction}
		case MultiSortConfig:
			// Copy to keep later caller mutation from skewing engine state.
			e.multi = append([]SortEntry(nil), c.Sorts...)
		}
	}
}

// WithPagination enables the pagination feature.
func WithPagination[T any](cfg PaginationConfig) Option[T] {
	return func(e *Engine[T]) {
		e.pagination = &cfg
		e.page = cfg.CurrentPage
		e.pageSize = cfg.PageSize
		e.totalItems = cfg.TotalItems
	}
}

// WithSelection enables the selection feature.
func WithSelection[T any](cfg SelectionConfig[T]) Option[T] {
	return func(e *Engine[T]) {
		e.selCfg = &cfg
		e.selection = NewSelection(cfg.SelectedKeys...)
	}
}

// WithRowActions declares the presentation-only actions column.
func WithRowActions[T any](cfg RowActionsConfig[T]) Option[T] {
	return func(e *Engine[T]) { e.rowActions = &cfg }
}

// New creates an engine over the given column descriptors.
func New[T any](columns []Column[T], opts ...Option[T]) *Engine[T] {
	e := &Engine[T]{
		columns:  columns,
		page:     1,
		pageSize: 10,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.page < 1 {
		e.page = 1
	}
	if e.pageSize < 1 && e.pagination != nil {
		// Malformed pagination config: degrade the feature to pass-through.
		e.pagination = nil
		e.pageSize = 10
	}
	if e.selection == nil {
		e.selection = NewSelection()
	}
	return e
}

// Columns returns the declared column descriptors.
func (e *Engine[T]) Columns() []Column[T] { return e.columns }

// RowActions returns the declared row-actions column, or nil.
func (e *Engine[T]) RowActions() *RowActionsConfig[T] { return e.rowActions }

// SetRows replaces the row collection. For server-mode features the rows
// are assumed already processed by the caller for those stages.
func (e *Engine[T]) SetRows(rows []T) { e.rows = rows }

// SetTotalItems updates the caller-reported total for server-mode
// pagination. Ignored when pagination is client-computed.
func (e *Engine[T]) SetTotalItems(n int) {
	if e.pagination != nil && e.pagination.Mode == ModeServer {
		e.totalItems = n
	}
}

// stageFn transforms the working row slice for one pipeline stage. Each
// feature picks between a local implementation and passThrough depending on
// its mode, which keeps the mode branching out of the pipeline itself.
type stageFn[T any] func([]T) []T

func passThrough[T any](rows []T) []T { return rows }

// filterStage selects the filter strategy for this render pass.
func (e *Engine[T]) filterStage() stageFn[T] {
	if e.filter == nil || e.filter.Mode == ModeServer {
		return passThrough[T]
	}
	return func(rows []T) []T {
		return Filter(rows, e.query, e.columns)
	}
}

// sortStage selects the sort strategy for this render pass.
func (e *Engine[T]) sortStage() stageFn[T] {
	switch e.sortCfg.(type) {
	case SingleSortConfig:
		if e.sortMode() == ModeServer {
			return passThrough[T]
		}
		return func(rows []T) []T { return SortSingle(rows, e.single) }
	case MultiSortConfig:
		if e.sortMode() == ModeServer {
			return passThrough[T]
		}
		return func(rows []T) []T { return SortMulti(rows, e.multi) }
	default:
		return passThrough[T]
	}
}

// paginateStage selects the pagination strategy for this render pass.
func (e *Engine[T]) paginateStage() stageFn[T] {
	if e.pagination == nil || e.pagination.Mode == ModeServer {
		return passThrough[T]
	}
	return func(rows []T) []T { return PageSlice(rows, e.page, e.pageSize) }
}

// View runs the fixed pipeline (filter, sort, paginate) and returns the
// computed display state.
func (e *Engine[T]) View() View[T] {
	working := e.filterStage()(e.rows)
	sorted := e.sortStage()(working)

	total := len(sorted)
	if e.pagination != nil && e.pagination.Mode == ModeServer {
		total = e.totalItems
	}

	v := View[T]{
		Rows:       e.paginateStage()(sorted),
		TotalItems: total,
		Query:      e.query,
		Single:     e.single,
		Sorts:      append([]SortEntry(nil), e.multi...),
	}

	if e.pagination != nil {
		v.PageSize = e.pageSize
		v.TotalPages = TotalPages(total, e.pageSize)
		v.CurrentPage = ClampPage(e.page, v.TotalPages)
		maxButtons := e.pagination.MaxButtons
		if maxButtons < 1 {
			maxButtons = DefaultMaxButtons
		}
		v.PageButtons = PageWindow(v.CurrentPage, v.TotalPages, maxButtons)
	}

	if e.selCfg != nil {
		v.SelectedKeys = e.selection.Keys()
		v.AllSelected = e.selection.AllSelected()
		v.PartiallySelected = e.selection.PartiallySelected()
	}

	return v
}

// SetQuery records a new filter query and notifies the caller. In server
// mode the caller is expected to re-fetch and SetRows with filtered data.
func (e *Engine[T]) SetQuery(query string) {
	if e.filter == nil {
		return
	}
	if e.filter.Mode == ModeServer && e.filter.OnChange == nil {
		// Incoherent config: nobody can act on the change. Degrade.
		return
	}
	e.query = query
	if e.filter.OnChange != nil {
		e.filter.OnChange(query)
	}
}

// Query returns the current filter query.
func (e *Engine[T]) Query() string { return e.query }

// ToggleSort handles a header click on the given column. The caller's sort
// handler fires regardless of mode; only the local recomputation is skipped
// in server mode (it happens lazily in View).
//
// Clicks on unknown or unsortable columns are ignored.
func (e *Engine[T]) ToggleSort(column string) {
	if !e.sortable(column) {
		return
	}

	switch cfg := e.sortCfg.(type) {
	case SingleSortConfig:
		if cfg.Mode == ModeServer && cfg.OnSort == nil {
			return
		}
		e.single = ToggleSingle(e.single, column, cfg.Initial)
		if cfg.OnSort != nil {
			cfg.OnSort(e.single.Column, e.single.Direction)
		}

	case MultiSortConfig:
		if cfg.Mode == ModeServer && cfg.OnSort == nil {
			return
		}
		e.multi = ToggleMulti(e.multi, column, MultiSortOptions{
			MaxSorts: cfg.MaxSorts,
			Initial:  cfg.Initial,
			Default:  cfg.Default,
		})
		if cfg.OnSort != nil {
			cfg.OnSort(append([]SortEntry(nil), e.multi...))
		}
	}
}

// SingleSort returns the current single-column sort state.
func (e *Engine[T]) SingleSort() SingleSortState { return e.single }

// MultiSort returns a copy of the current multi-sort entries.
func (e *Engine[T]) MultiSort() []SortEntry {
	return append([]SortEntry(nil), e.multi...)
}

// GoToPage requests a page change. The page is clamped against the current
// total; the caller's handler receives the clamped value.
func (e *Engine[T]) GoToPage(page int) {
	if e.pagination == nil {
		return
	}
	if e.pagination.Mode == ModeServer && e.pagination.OnPageChange == nil {
		return
	}
	total := e.currentTotal()
	e.page = ClampPage(page, TotalPages(total, e.pageSize))
	if e.pagination.OnPageChange != nil {
		e.pagination.OnPageChange(e.page)
	}
}

// SetPageSize changes the page size and returns to page 1.
// Non-positive sizes are ignored.
func (e *Engine[T]) SetPageSize(size int) {
	if e.pagination == nil || size < 1 {
		return
	}
	e.pageSize = size
	e.page = 1
	if e.pagination.OnPageSizeChange != nil {
		e.pagination.OnPageSizeChange(size)
	}
}

// CurrentPage returns the current 1-based page number.
func (e *Engine[T]) CurrentPage() int { return e.page }

// PageSize returns the current page size.
func (e *Engine[T]) PageSize() int { return e.pageSize }

// RowKey derives the selection identity of a row from the configured key
// extractor. Returns "" when selection is not configured.
func (e *Engine[T]) RowKey(row T) string {
	if e.selCfg == nil {
		return ""
	}
	if e.selCfg.KeyFunc != nil {
		return e.selCfg.KeyFunc(row)
	}
	v := Extract(row, e.selCfg.KeyColumn)
	if isNullish(v) {
		return ""
	}
	return fmt.Sprint(v)
}

// SelectionEnabled reports whether the selection feature is configured.
func (e *Engine[T]) SelectionEnabled() bool { return e.selCfg != nil }

// Selected reports whether a row is selected.
func (e *Engine[T]) Selected(row T) bool {
	return e.selCfg != nil && e.selection.Has(e.RowKey(row))
}

// ToggleRow flips selection of a single row and notifies the caller.
func (e *Engine[T]) ToggleRow(row T) {
	if e.selCfg == nil {
		return
	}
	e.selection.Toggle(e.RowKey(row))
	e.notifySelection()
}

// ToggleSelectAllVisible applies select-all semantics to the rows currently
// visible after the pipeline: all selected clears them, anything else
// selects them all. The visible key list becomes the tri-state snapshot.
func (e *Engine[T]) ToggleSelectAllVisible() {
	if e.selCfg == nil {
		return
	}
	e.selection.ToggleSelectAll(e.visibleKeys())
	e.notifySelection()
}

// SelectAllVisible unions the currently visible rows into the selection.
func (e *Engine[T]) SelectAllVisible() {
	if e.selCfg == nil {
		return
	}
	e.selection.SelectAll(e.visibleKeys())
	e.notifySelection()
}

// DeselectAll clears the selection and notifies the caller.
func (e *Engine[T]) DeselectAll() {
	if e.selCfg == nil {
		return
	}
	e.selection.DeselectAll()
	e.notifySelection()
}

// visibleKeys returns the keys of the rows a render pass would display.
func (e *Engine[T]) visibleKeys() []string {
	rows := e.paginateStage()(e.sortStage()(e.filterStage()(e.rows)))
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, e.RowKey(row))
	}
	return keys
}

// currentTotal returns the item count pagination should clamp against:
// the caller-reported total in server mode, the filtered length otherwise.
func (e *Engine[T]) currentTotal() int {
	if e.pagination != nil && e.pagination.Mode == ModeServer {
		return e.totalItems
	}
	return len(e.filterStage()(e.rows))
}

// notifySelection pushes the selected key list to the caller.
func (e *Engine[T]) notifySelection() {
	if e.selCfg.OnChange != nil {
		e.selCfg.OnChange(e.selection.Keys())
	}
}

// sortable reports whether the column exists, is declared sortable, and a
// sort feature is configured.
func (e *Engine[T]) sortable(column string) bool {
	if e.sortCfg == nil {
		return false
	}
	for _, c := range e.columns {
		if c.Key == column {
			return c.Sortable
		}
	}
	return false
}

// sortMode returns the configured sort mode, defaulting to client.
func (e *Engine[T]) sortMode() Mode {
	switch cfg := e.sortCfg.(type) {
	case SingleSortConfig:
		return cfg.Mode
	case MultiSortConfig:
		return cfg.Mode
	default:
		return ModeClient
	}
}
