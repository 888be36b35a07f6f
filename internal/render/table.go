// Package render draws engine view state as terminal text with lipgloss.
// It is strictly presentational: it renders whatever view it is handed and
// holds no table logic of its own.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docwatch/docwatch/internal/tabular"
)

// Sort indicators and checkbox glyphs shared by every table.
const (
	arrowUp   = "↑"
	arrowDown = "↓"

	checkAll     = "[x]"
	checkPartial = "[~]"
	checkNone    = "[ ]"

	ellipsis = "…"
)

// Table renders one engine and its styles into terminal text.
type Table[T any] struct {
	engine *tabular.Engine[T]
	styles Styles
}

// NewTable creates a renderer bound to an engine.
func NewTable[T any](engine *tabular.Engine[T], styles Styles) *Table[T] {
	return &Table[T]{engine: engine, styles: styles}
}

// Render draws the header, body rows, and pagination bar for one view.
func (t *Table[T]) Render(v tabular.View[T]) string {
	var sb strings.Builder
	sb.WriteString(t.renderHeader(v))
	sb.WriteString("\n")
	sb.WriteString(t.renderRows(v))
	if bar := t.RenderPagination(v); bar != "" {
		sb.WriteString(bar)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderHeader draws the column labels with sort indicators, preceded by
// the tri-state checkbox when selection is on.
func (t *Table[T]) renderHeader(v tabular.View[T]) string {
	widths := t.columnWidths(v)
	cells := make([]string, 0, len(widths)+2)

	if t.engine.SelectionEnabled() {
		cells = append(cells, t.styles.Header.Render(headerCheckbox(v)))
	}
	for i, col := range t.engine.Columns() {
		label := col.Header + sortIndicator(col, v)
		cells = append(cells, t.styles.Header.Width(widths[i]).Render(label))
	}
	if actions := t.engine.RowActions(); actions != nil {
		cells = append(cells, t.styles.Header.Render(actions.Header))
	}
	return strings.Join(cells, "  ")
}

// renderRows draws the body, one line per visible row.
func (t *Table[T]) renderRows(v tabular.View[T]) string {
	widths := t.columnWidths(v)

	var sb strings.Builder
	for _, row := range v.Rows {
		cells := make([]string, 0, len(widths)+2)

		if t.engine.SelectionEnabled() {
			box, style := checkNone, t.styles.Cell
			if t.engine.Selected(row) {
				box, style = checkAll, t.styles.Selected
			}
			cells = append(cells, style.Render(box))
		}
		for i, col := range t.engine.Columns() {
			cells = append(cells, t.styles.Cell.Width(widths[i]).Render(cellText(row, col)))
		}
		if actions := t.engine.RowActions(); actions != nil && actions.Render != nil {
			cells = append(cells, t.styles.Muted.Render(actions.Render(row)))
		}

		sb.WriteString(strings.Join(cells, "  "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderPagination draws the page-button window plus an item summary, or ""
// when pagination is off.
func (t *Table[T]) RenderPagination(v tabular.View[T]) string {
	if len(v.PageButtons) == 0 {
		return ""
	}

	parts := make([]string, 0, len(v.PageButtons)+1)
	for _, btn := range v.PageButtons {
		switch {
		case btn.Ellipsis:
			parts = append(parts, t.styles.Muted.Render(ellipsis))
		case btn.Page == v.CurrentPage:
			parts = append(parts, t.styles.ActivePage.Render("["+strconv.Itoa(btn.Page)+"]"))
		default:
			parts = append(parts, t.styles.Page.Render(strconv.Itoa(btn.Page)))
		}
	}

	summary := fmt.Sprintf("page %d/%d, %d items", v.CurrentPage, v.TotalPages, v.TotalItems)
	parts = append(parts, t.styles.Muted.Render(summary))
	return strings.Join(parts, " ")
}

// columnWidths resolves each column to its declared width, or the widest
// content on the current page.
func (t *Table[T]) columnWidths(v tabular.View[T]) []int {
	columns := t.engine.Columns()
	widths := make([]int, len(columns))
	for i, col := range columns {
		if col.Width > 0 {
			widths[i] = col.Width
			continue
		}
		widths[i] = lipgloss.Width(col.Header + sortIndicator(col, v))
		for _, row := range v.Rows {
			if w := lipgloss.Width(cellText(row, col)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// headerCheckbox picks the tri-state glyph for the select-all header.
func headerCheckbox[T any](v tabular.View[T]) string {
	switch {
	case v.AllSelected:
		return checkAll
	case v.PartiallySelected:
		return checkPartial
	default:
		return checkNone
	}
}

// sortIndicator returns the arrow (and multi-sort priority digit) suffix
// for a column header.
func sortIndicator[T any](col tabular.Column[T], v tabular.View[T]) string {
	if v.Single.Column == col.Key {
		return " " + arrow(v.Single.Direction)
	}
	for _, e := range v.Sorts {
		if e.Column != col.Key {
			continue
		}
		suffix := " " + arrow(e.Direction)
		if len(v.Sorts) > 1 {
			suffix += strconv.Itoa(e.Priority + 1)
		}
		return suffix
	}
	return ""
}

func arrow(d tabular.Direction) string {
	if d == tabular.Descending {
		return arrowDown
	}
	return arrowUp
}

// cellText resolves a cell through the column's render transform, falling
// back to the extracted value.
func cellText[T any](row T, col tabular.Column[T]) string {
	if col.Render != nil {
		return col.Render(row)
	}
	v := tabular.Extract(row, col.Key)
	if tabular.IsNullish(v) {
		return ""
	}
	return fmt.Sprint(v)
}
