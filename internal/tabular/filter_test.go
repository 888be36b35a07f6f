package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type filterRow struct {
	ID         string   `json:"id"`
	Reference  string   `json:"reference"`
	Pages      int      `json:"pages"`
	Department pathDept `json:"department"`
}

func filterColumns() []Column[filterRow] {
	return []Column[filterRow]{
		{Key: "reference", Header: "Reference"},
		{Key: "pages", Header: "Pages"},
		{Key: "department.name", Header: "Department"},
	}
}

func filterRows() []filterRow {
	return []filterRow{
		{ID: "1", Reference: "DOC-1001", Pages: 4, Department: pathDept{Name: "Claims"}},
		{ID: "2", Reference: "DOC-1002", Pages: 12, Department: pathDept{Name: "Billing"}},
		{ID: "3", Reference: "INV-2001", Pages: 120, Department: pathDept{Name: "claims"}},
	}
}

// TestFilter_EmptyQueryPassesThrough tests that empty and whitespace-only
// queries return the input slice unchanged.
func TestFilter_EmptyQueryPassesThrough(t *testing.T) {
	rows := filterRows()

	for _, q := range []string{"", "   ", "\t\n"} {
		out := Filter(rows, q, filterColumns())
		assert.Len(t, out, len(rows))
		// Same backing array, not a copy.
		assert.True(t, &rows[0] == &out[0])
	}
}

// TestFilter_CaseInsensitiveSubstring tests matching across columns.
func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	rows := filterRows()

	out := Filter(rows, "claims", filterColumns())
	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)

	out = Filter(rows, "doc-", filterColumns())
	assert.Len(t, out, 2)

	// Numeric columns match on their stringified value.
	out = Filter(rows, "120", filterColumns())
	assert.Len(t, out, 1)
	assert.Equal(t, "3", out[0].ID)
}

// TestFilter_OnlyDeclaredColumns tests that undeclared fields never match.
func TestFilter_OnlyDeclaredColumns(t *testing.T) {
	rows := filterRows()

	// "2" appears in IDs, but id is not a declared column; it also appears
	// in references and page counts, so restrict to a value only ids have.
	out := Filter(rows, "3", []Column[filterRow]{{Key: "reference"}})
	assert.Empty(t, out)
}

// TestFilter_NoMatches tests an all-miss query.
func TestFilter_NoMatches(t *testing.T) {
	out := Filter(filterRows(), "zzz", filterColumns())
	assert.Empty(t, out)
}

// TestFilter_QueryTrimmed tests that surrounding whitespace is ignored.
func TestFilter_QueryTrimmed(t *testing.T) {
	out := Filter(filterRows(), "  billing  ", filterColumns())
	assert.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)
}
