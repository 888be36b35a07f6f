package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Pages  int    `json:"pages"`
	Status string `json:"status"`
}

func engColumns() []Column[engRow] {
	return []Column[engRow]{
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "pages", Header: "Pages", Sortable: true},
		{Key: "status", Header: "Status"},
	}
}

func engRows() []engRow {
	return []engRow{
		{ID: "1", Name: "delta", Pages: 3, Status: "done"},
		{ID: "2", Name: "alpha", Pages: 9, Status: "done"},
		{ID: "3", Name: "charlie", Pages: 1, Status: "failed"},
		{ID: "4", Name: "bravo", Pages: 7, Status: "pending"},
	}
}

// TestEngine_ClientPipeline tests filter -> sort -> paginate in full client
// mode.
func TestEngine_ClientPipeline(t *testing.T) {
	e := New(engColumns(),
		WithRows(engRows()),
		WithFilter[engRow](FilterConfig{}),
		WithSort[engRow](SingleSortConfig{}),
		WithPagination[engRow](PaginationConfig{CurrentPage: 1, PageSize: 2}),
	)

	e.ToggleSort("name")
	v := e.View()

	require.Len(t, v.Rows, 2)
	assert.Equal(t, "alpha", v.Rows[0].Name)
	assert.Equal(t, "bravo", v.Rows[1].Name)
	assert.Equal(t, 4, v.TotalItems)
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, pages(1, 2), v.PageButtons)

	e.GoToPage(2)
	v = e.View()
	assert.Equal(t, "charlie", v.Rows[0].Name)
	assert.Equal(t, "delta", v.Rows[1].Name)
}

// TestEngine_FilterNarrowsPagination tests that the pipeline feeds each
// stage the previous stage's output.
func TestEngine_FilterNarrowsPagination(t *testing.T) {
	e := New(engColumns(),
		WithRows(engRows()),
		WithFilter[engRow](FilterConfig{}),
		WithPagination[engRow](PaginationConfig{CurrentPage: 1, PageSize: 10}),
	)

	e.SetQuery("done")
	v := e.View()

	assert.Equal(t, 2, v.TotalItems)
	assert.Len(t, v.Rows, 2)
	assert.Equal(t, 1, v.TotalPages)
}

// TestEngine_ServerModeSkipsLocalWork tests that server-mode stages pass
// data through and trust the caller.
func TestEngine_ServerModeSkipsLocalWork(t *testing.T) {
	var gotQuery string
	var gotPage int

	e := New(engColumns(),
		WithFilter[engRow](FilterConfig{Mode: ModeServer, OnChange: func(q string) { gotQuery = q }}),
		WithSort[engRow](SingleSortConfig{Mode: ModeServer, OnSort: func(string, Direction) {}}),
		WithPagination[engRow](PaginationConfig{
			Mode:         ModeServer,
			CurrentPage:  1,
			PageSize:     2,
			TotalItems:   95,
			OnPageChange: func(p int) { gotPage = p },
		}),
	)

	// The caller fetched page 1 pre-filtered and pre-sorted upstream.
	e.SetRows(engRows()[:2])
	e.SetQuery("delta")
	v := e.View()

	assert.Equal(t, "delta", gotQuery)
	// Rows are NOT filtered or re-sorted locally.
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "delta", v.Rows[0].Name)
	assert.Equal(t, 95, v.TotalItems)
	assert.Equal(t, 48, v.TotalPages)

	e.GoToPage(5)
	assert.Equal(t, 5, gotPage)
}

// TestEngine_HandlerFiresRegardlessOfMode tests that a header click always
// reaches the caller's sort handler, client mode included.
func TestEngine_HandlerFiresRegardlessOfMode(t *testing.T) {
	var calls int
	e := New(engColumns(),
		WithRows(engRows()),
		WithSort[engRow](SingleSortConfig{OnSort: func(string, Direction) { calls++ }}),
	)

	e.ToggleSort("name")
	e.ToggleSort("name")
	assert.Equal(t, 2, calls)
}

// TestEngine_IncoherentConfigDegrades tests the silent-degradation policy:
// server-mode sort without a handler becomes a no-op instead of erroring.
func TestEngine_IncoherentConfigDegrades(t *testing.T) {
	e := New(engColumns(),
		WithRows(engRows()),
		WithSort[engRow](SingleSortConfig{Mode: ModeServer}),
	)

	e.ToggleSort("name")
	assert.Equal(t, SingleSortState{}, e.SingleSort())

	// Malformed pagination (page size 0) disables the feature entirely.
	e2 := New(engColumns(),
		WithRows(engRows()),
		WithPagination[engRow](PaginationConfig{CurrentPage: 1}),
	)
	v := e2.View()
	assert.Len(t, v.Rows, 4)
	assert.Empty(t, v.PageButtons)
}

// TestEngine_UnsortableColumnIgnored tests that clicks on non-sortable or
// unknown columns do nothing.
func TestEngine_UnsortableColumnIgnored(t *testing.T) {
	e := New(engColumns(),
		WithRows(engRows()),
		WithSort[engRow](SingleSortConfig{}),
	)

	e.ToggleSort("status") // declared, not sortable
	e.ToggleSort("nope")   // unknown
	assert.Equal(t, SingleSortState{}, e.SingleSort())
}

// TestEngine_MultiSortToggle tests the multi-sort path through the
// orchestrator, including the first-click-descending default.
func TestEngine_MultiSortToggle(t *testing.T) {
	var reported []SortEntry
	e := New(engColumns(),
		WithRows(engRows()),
		WithSort[engRow](MultiSortConfig{OnSort: func(s []SortEntry) { reported = s }}),
	)

	e.ToggleSort("name")
	require.Equal(t, []SortEntry{{Column: "name", Direction: Descending, Priority: 0}}, reported)

	v := e.View()
	assert.Equal(t, "delta", v.Rows[0].Name)
}

// TestEngine_SelectionRoundTrip tests selection through the orchestrator
// with page-scoped select-all.
func TestEngine_SelectionRoundTrip(t *testing.T) {
	var reported []string
	e := New(engColumns(),
		WithRows(engRows()),
		WithPagination[engRow](PaginationConfig{CurrentPage: 1, PageSize: 2}),
		WithSelection[engRow](SelectionConfig[engRow]{
			KeyColumn: "id",
			OnChange:  func(keys []string) { reported = keys },
		}),
	)

	e.ToggleSelectAllVisible()
	assert.Equal(t, []string{"1", "2"}, reported)

	v := e.View()
	assert.True(t, v.AllSelected)

	// Moving to page 2 does not clear anything.
	e.GoToPage(2)
	v = e.View()
	assert.Equal(t, []string{"1", "2"}, v.SelectedKeys)

	// Idempotence through the engine surface.
	e.GoToPage(1)
	e.ToggleSelectAllVisible()
	assert.Empty(t, reported)
}

// TestEngine_RowKeyFuncWins tests that a key function overrides the key
// column.
func TestEngine_RowKeyFuncWins(t *testing.T) {
	e := New(engColumns(),
		WithSelection[engRow](SelectionConfig[engRow]{
			KeyColumn: "id",
			KeyFunc:   func(r engRow) string { return "k-" + r.ID },
		}),
	)

	assert.Equal(t, "k-7", e.RowKey(engRow{ID: "7"}))
}

// TestEngine_SetPageSizeResets tests that a page-size change returns to
// page 1 and notifies the caller.
func TestEngine_SetPageSizeResets(t *testing.T) {
	var gotSize int
	e := New(engColumns(),
		WithRows(engRows()),
		WithPagination[engRow](PaginationConfig{
			CurrentPage:      2,
			PageSize:         2,
			OnPageSizeChange: func(s int) { gotSize = s },
		}),
	)

	e.SetPageSize(50)
	assert.Equal(t, 50, gotSize)
	assert.Equal(t, 1, e.CurrentPage())

	e.SetPageSize(0) // ignored
	assert.Equal(t, 50, e.PageSize())
}

// TestEngine_NoFeaturesIsPassThrough tests a bare engine.
func TestEngine_NoFeaturesIsPassThrough(t *testing.T) {
	rows := engRows()
	e := New(engColumns(), WithRows(rows))

	v := e.View()
	assert.Equal(t, rows, v.Rows)
	assert.Equal(t, 4, v.TotalItems)
	assert.Zero(t, v.TotalPages)
}
