package render

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwatch/docwatch/internal/tabular"
)

type renderRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Pages  int    `json:"pages"`
	Status string `json:"status"`
}

func renderColumns() []tabular.Column[renderRow] {
	return []tabular.Column[renderRow]{
		{Key: "name", Header: "Name", Sortable: true},
		{Key: "pages", Header: "Pages", Sortable: true},
		{Key: "status", Header: "Status", Render: func(r renderRow) string {
			return strings.ToUpper(r.Status)
		}},
	}
}

func renderRows(n int) []renderRow {
	rows := make([]renderRow, 0, n)
	for i := range n {
		rows = append(rows, renderRow{
			ID:     "r" + strconv.Itoa(i+1),
			Name:   "doc " + strconv.Itoa(i+1),
			Pages:  i + 1,
			Status: "ok",
		})
	}
	return rows
}

// TestTable_RendersHeaderAndRows tests the basic layout and the render
// transform.
func TestTable_RendersHeaderAndRows(t *testing.T) {
	eng := tabular.New(renderColumns(), tabular.WithRows(renderRows(2)))
	table := NewTable(eng, PlainStyles())

	out := table.Render(eng.View())

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "Pages")
	assert.Contains(t, out, "doc 1")
	assert.Contains(t, out, "doc 2")
	// Status goes through the column's render transform.
	assert.Contains(t, out, "OK")
	assert.NotContains(t, out, "<nil>")
}

// TestTable_SingleSortIndicator tests the header arrow for single-column
// sort.
func TestTable_SingleSortIndicator(t *testing.T) {
	eng := tabular.New(renderColumns(),
		tabular.WithRows(renderRows(2)),
		tabular.WithSort[renderRow](tabular.SingleSortConfig{}),
	)
	table := NewTable(eng, PlainStyles())

	eng.ToggleSort("name")
	assert.Contains(t, table.Render(eng.View()), "Name ↑")

	eng.ToggleSort("name")
	assert.Contains(t, table.Render(eng.View()), "Name ↓")

	eng.ToggleSort("name")
	assert.NotContains(t, table.Render(eng.View()), "↑")
}

// TestTable_MultiSortPriorityDigits tests arrows with priority digits once
// more than one column is sorted.
func TestTable_MultiSortPriorityDigits(t *testing.T) {
	eng := tabular.New(renderColumns(),
		tabular.WithRows(renderRows(2)),
		tabular.WithSort[renderRow](tabular.MultiSortConfig{}),
	)
	table := NewTable(eng, PlainStyles())

	eng.ToggleSort("name")
	out := table.Render(eng.View())
	// A single entry renders without a digit.
	assert.Contains(t, out, "Name ↓")
	assert.NotContains(t, out, "↓1")

	eng.ToggleSort("pages")
	out = table.Render(eng.View())
	assert.Contains(t, out, "Name ↓1")
	assert.Contains(t, out, "Pages ↓2")
}

// TestTable_SelectionCheckboxes tests the tri-state header and per-row
// boxes.
func TestTable_SelectionCheckboxes(t *testing.T) {
	eng := tabular.New(renderColumns(),
		tabular.WithRows(renderRows(3)),
		tabular.WithSelection(tabular.SelectionConfig[renderRow]{KeyColumn: "id"}),
	)
	table := NewTable(eng, PlainStyles())

	out := table.Render(eng.View())
	assert.Contains(t, out, "[ ]")
	assert.NotContains(t, out, "[x]")

	// Selecting one of three visible rows shows the partial header state.
	view := eng.View()
	eng.ToggleSelectAllVisible() // snapshot the page
	eng.DeselectAll()
	eng.ToggleRow(view.Rows[0])

	out = table.Render(eng.View())
	assert.Contains(t, out, "[~]")
	assert.Contains(t, out, "[x]")

	eng.SelectAllVisible()
	out = table.Render(eng.View())
	assert.Contains(t, out, "[x]")
	assert.NotContains(t, out, "[~]")
}

// TestTable_PaginationBar tests the page-button window with ellipsis and
// the active-page marker.
func TestTable_PaginationBar(t *testing.T) {
	eng := tabular.New(renderColumns(),
		tabular.WithRows(renderRows(100)),
		tabular.WithPagination[renderRow](tabular.PaginationConfig{CurrentPage: 10, PageSize: 5}),
	)
	table := NewTable(eng, PlainStyles())

	bar := table.RenderPagination(eng.View())

	assert.Contains(t, bar, "[10]")
	assert.Contains(t, bar, "…")
	assert.True(t, strings.HasPrefix(bar, "1 "))
	assert.Contains(t, bar, "20")
	assert.Contains(t, bar, "page 10/20, 100 items")
}

// TestTable_NoPaginationNoBar tests that the bar disappears when the
// feature is off.
func TestTable_NoPaginationNoBar(t *testing.T) {
	eng := tabular.New(renderColumns(), tabular.WithRows(renderRows(3)))
	table := NewTable(eng, PlainStyles())

	assert.Empty(t, table.RenderPagination(eng.View()))
}

// TestTable_FixedWidthTruncation tests that declared widths are honored.
func TestTable_FixedWidthTruncation(t *testing.T) {
	columns := []tabular.Column[renderRow]{
		{Key: "name", Header: "Name", Width: 20},
	}
	eng := tabular.New(columns, tabular.WithRows(renderRows(1)))
	table := NewTable(eng, PlainStyles())

	lines := strings.Split(table.Render(eng.View()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, 20, len([]rune(lines[1])))
}
