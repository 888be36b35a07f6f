package dash

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docwatch/docwatch/internal/docreq"
	"github.com/docwatch/docwatch/internal/render"
	"github.com/docwatch/docwatch/internal/tabular"
)

// Settings carries the table tuning shared by every page, resolved from
// configuration by the caller.
type Settings struct {
	PageSize        int
	PageSizeOptions []int
	MaxSortDepth    int
	SingleInitial   tabular.Direction
	MultiInitial    tabular.Direction
}

// DefaultSettings returns sensible values for tests and ad-hoc use.
func DefaultSettings() Settings {
	return Settings{
		PageSize:        25,
		PageSizeOptions: []int{10, 25, 50, 100},
		MaxSortDepth:    tabular.DefaultMaxSorts,
		SingleInitial:   tabular.Ascending,
		MultiInitial:    tabular.Descending,
	}
}

// tablePane is the page-agnostic surface the model drives with key events.
// Each list page implements it over its own row type.
type tablePane interface {
	toggleSortIndex(i int)
	pageBy(delta int)
	cyclePageSize()
	setQuery(q string)
	toggleCursorRow(cursor int)
	toggleSelectAll()
	deselectAll()
	rowCount() int
	queryText() string
	render() string
	// maybeFetch returns the re-fetch command when a change intent marked
	// the pane dirty, or nil. Client-computed panes always return nil.
	maybeFetch() tea.Cmd
}

// pane pairs an engine with its renderer and, for server-mode pages, the
// fetch bookkeeping: a dirty flag set by the engine's change handlers and a
// sequence number that stamps every fetch so stale responses can be
// recognized and dropped.
type pane[T any] struct {
	engine   *tabular.Engine[T]
	table    *render.Table[T]
	settings Settings

	fetch func(seq int, q docreq.Query) tea.Cmd
	seq   int
	dirty bool
}

// newServerPane builds a pane whose filter, sort, and pagination all run
// upstream. keyColumn enables selection when non-empty.
func newServerPane[T any](columns []tabular.Column[T], s Settings, styles render.Styles, keyColumn string, fetch func(seq int, q docreq.Query) tea.Cmd) *pane[T] {
	p := &pane[T]{settings: s, fetch: fetch}
	markDirty := func() { p.dirty = true }

	opts := []tabular.Option[T]{
		tabular.WithFilter[T](tabular.FilterConfig{
			Mode:     tabular.ModeServer,
			OnChange: func(string) { markDirty() },
		}),
		tabular.WithSort[T](tabular.MultiSortConfig{
			Mode:     tabular.ModeServer,
			MaxSorts: s.MaxSortDepth,
			Initial:  s.MultiInitial,
			OnSort:   func([]tabular.SortEntry) { markDirty() },
		}),
		tabular.WithPagination[T](tabular.PaginationConfig{
			Mode:             tabular.ModeServer,
			CurrentPage:      1,
			PageSize:         s.PageSize,
			PageSizeOptions:  s.PageSizeOptions,
			OnPageChange:     func(int) { markDirty() },
			OnPageSizeChange: func(int) { markDirty() },
		}),
	}
	if keyColumn != "" {
		opts = append(opts, tabular.WithSelection(tabular.SelectionConfig[T]{KeyColumn: keyColumn}))
	}

	p.engine = tabular.New(columns, opts...)
	p.table = render.NewTable(p.engine, styles)
	p.dirty = true // initial load
	return p
}

// newClientPane builds a pane that filters, sorts, and paginates locally
// over rows the caller supplies with SetRows.
func newClientPane[T any](columns []tabular.Column[T], s Settings, styles render.Styles, keyColumn string) *pane[T] {
	p := &pane[T]{settings: s}

	opts := []tabular.Option[T]{
		tabular.WithFilter[T](tabular.FilterConfig{Mode: tabular.ModeClient}),
		tabular.WithSort[T](tabular.SingleSortConfig{
			Mode:    tabular.ModeClient,
			Initial: s.SingleInitial,
		}),
		tabular.WithPagination[T](tabular.PaginationConfig{
			Mode:            tabular.ModeClient,
			CurrentPage:     1,
			PageSize:        s.PageSize,
			PageSizeOptions: s.PageSizeOptions,
		}),
	}
	if keyColumn != "" {
		opts = append(opts, tabular.WithSelection(tabular.SelectionConfig[T]{KeyColumn: keyColumn}))
	}

	p.engine = tabular.New(columns, opts...)
	p.table = render.NewTable(p.engine, styles)
	return p
}

func (p *pane[T]) toggleSortIndex(i int) {
	columns := p.engine.Columns()
	if i >= 0 && i < len(columns) {
		p.engine.ToggleSort(columns[i].Key)
	}
}

func (p *pane[T]) pageBy(delta int) {
	p.engine.GoToPage(p.engine.CurrentPage() + delta)
}

// cyclePageSize advances to the next configured page size, wrapping around.
func (p *pane[T]) cyclePageSize() {
	options := p.settings.PageSizeOptions
	if len(options) == 0 {
		return
	}
	current := p.engine.PageSize()
	for i, size := range options {
		if size == current {
			p.engine.SetPageSize(options[(i+1)%len(options)])
			return
		}
	}
	p.engine.SetPageSize(options[0])
}

func (p *pane[T]) setQuery(q string) {
	p.engine.SetQuery(q)
}

func (p *pane[T]) toggleCursorRow(cursor int) {
	rows := p.engine.View().Rows
	if cursor >= 0 && cursor < len(rows) {
		p.engine.ToggleRow(rows[cursor])
	}
}

func (p *pane[T]) toggleSelectAll() { p.engine.ToggleSelectAllVisible() }
func (p *pane[T]) deselectAll()     { p.engine.DeselectAll() }

func (p *pane[T]) rowCount() int { return len(p.engine.View().Rows) }

func (p *pane[T]) queryText() string { return p.engine.Query() }

func (p *pane[T]) render() string { return p.table.Render(p.engine.View()) }

func (p *pane[T]) maybeFetch() tea.Cmd {
	if p.fetch == nil || !p.dirty {
		return nil
	}
	p.dirty = false
	p.seq++
	return p.fetch(p.seq, p.query())
}

// query snapshots the engine state as the upstream list parameters.
func (p *pane[T]) query() docreq.Query {
	return docreq.Query{
		Search:   p.engine.Query(),
		Sorts:    p.engine.MultiSort(),
		Page:     p.engine.CurrentPage(),
		PageSize: p.engine.PageSize(),
	}
}

// accept applies a fetched page if it is the response to the latest fetch.
// Stale responses are dropped.
func (p *pane[T]) accept(seq int, page docreq.Page[T]) bool {
	if seq != p.seq {
		return false
	}
	p.engine.SetRows(page.Data)
	p.engine.SetTotalItems(page.Total)
	return true
}

// setRows replaces a client pane's full row set.
func (p *pane[T]) setRows(rows []T) {
	p.engine.SetRows(rows)
	p.engine.GoToPage(1)
}

const timestampFormat = "2006-01-02 15:04"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timestampFormat)
}

func requestColumns() []tabular.Column[docreq.Request] {
	return []tabular.Column[docreq.Request]{
		{Key: "reference", Header: "Reference", Sortable: true},
		{Key: "status", Header: "Status", Sortable: true},
		{Key: "document_type", Header: "Type", Sortable: true},
		{Key: "department.name", Header: "Department", Sortable: true},
		{Key: "page_count", Header: "Pages", Sortable: true},
		{Key: "submitted_at", Header: "Submitted", Sortable: true, Render: func(r docreq.Request) string {
			return formatTime(r.SubmittedAt)
		}},
		{Key: "completed_at", Header: "Completed", Sortable: true, Render: func(r docreq.Request) string {
			if r.CompletedAt == nil {
				return ""
			}
			return formatTime(*r.CompletedAt)
		}},
	}
}

func batchColumns() []tabular.Column[docreq.Batch] {
	return []tabular.Column[docreq.Batch]{
		{Key: "name", Header: "Batch", Sortable: true},
		{Key: "status", Header: "Status", Sortable: true},
		{Key: "request_count", Header: "Requests", Sortable: true},
		{Key: "failed_count", Header: "Failed", Sortable: true},
		{Key: "created_at", Header: "Created", Sortable: true, Render: func(b docreq.Batch) string {
			return formatTime(b.CreatedAt)
		}},
	}
}

func errorColumns() []tabular.Column[docreq.ProcessingError] {
	return []tabular.Column[docreq.ProcessingError]{
		{Key: "request_id", Header: "Request", Sortable: true},
		{Key: "stage", Header: "Stage", Sortable: true},
		{Key: "severity", Header: "Severity", Sortable: true},
		{Key: "message", Header: "Message"},
		{Key: "occurred_at", Header: "Occurred", Sortable: true, Render: func(e docreq.ProcessingError) string {
			return formatTime(e.OccurredAt)
		}},
	}
}

func referenceColumns() []tabular.Column[docreq.ReferenceEntry] {
	return []tabular.Column[docreq.ReferenceEntry]{
		{Key: "code", Header: "Code", Sortable: true},
		{Key: "label", Header: "Label", Sortable: true},
		{Key: "active", Header: "Active", Sortable: true, Render: func(e docreq.ReferenceEntry) string {
			return fmt.Sprintf("%t", e.Active)
		}},
	}
}
