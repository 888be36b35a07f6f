package listsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwatch/docwatch/internal/tabular"
)

func refTable() Table {
	return Table{
		Name: "document_types",
		Columns: map[string]ColumnType{
			"id":     Text,
			"code":   Text,
			"label":  Text,
			"active": Numeric,
		},
	}
}

// TestCompile_PlainList tests the no-search, no-sort default.
func TestCompile_PlainList(t *testing.T) {
	sql, params, err := Compile(refTable(), Query{})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM document_types ORDER BY id ASC", sql)
	assert.Empty(t, params)
}

// TestCompile_SearchParameterized tests that search text is bound, never
// interpolated, across all text columns.
func TestCompile_SearchParameterized(t *testing.T) {
	sql, params, err := Compile(refTable(), Query{Search: "invoice"})
	require.NoError(t, err)

	assert.Contains(t, sql, `WHERE code LIKE ? ESCAPE '\' OR id LIKE ? ESCAPE '\' OR label LIKE ? ESCAPE '\'`)
	assert.NotContains(t, sql, "invoice")
	assert.Equal(t, []any{"%invoice%", "%invoice%", "%invoice%"}, params)
}

// TestCompile_SearchEscapesWildcards tests LIKE metacharacter escaping.
func TestCompile_SearchEscapesWildcards(t *testing.T) {
	_, params, err := Compile(refTable(), Query{Search: "10%_done"})
	require.NoError(t, err)
	require.NotEmpty(t, params)
	assert.Equal(t, `%10\%\_done%`, params[0])
}

// TestCompile_SortPriorityOrder tests multi-sort compilation with the id
// tiebreaker appended.
func TestCompile_SortPriorityOrder(t *testing.T) {
	sql, _, err := Compile(refTable(), Query{
		Sorts: []tabular.SortEntry{
			{Column: "label", Direction: tabular.Ascending, Priority: 1},
			{Column: "active", Direction: tabular.Descending, Priority: 0},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, sql, "ORDER BY active DESC, label COLLATE NOCASE ASC, id ASC")
}

// TestCompile_UnknownSortColumnSkipped tests silent degradation on columns
// outside the whitelist.
func TestCompile_UnknownSortColumnSkipped(t *testing.T) {
	sql, _, err := Compile(refTable(), Query{
		Sorts: []tabular.SortEntry{{Column: "evil; DROP TABLE x", Direction: tabular.Ascending}},
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM document_types ORDER BY id ASC", sql)
}

// TestCompile_Pagination tests LIMIT/OFFSET derivation.
func TestCompile_Pagination(t *testing.T) {
	sql, params, err := Compile(refTable(), Query{Page: 3, PageSize: 25})
	require.NoError(t, err)

	assert.Contains(t, sql, "LIMIT ? OFFSET ?")
	assert.Equal(t, []any{25, 50}, params)

	// Page 0 clamps to page 1.
	_, params, err = Compile(refTable(), Query{Page: 0, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []any{10, 0}, params)
}

// TestCompileCount tests the companion count statement.
func TestCompileCount(t *testing.T) {
	sql, params, err := CompileCount(refTable(), Query{Search: "x"})
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT COUNT(*) FROM document_types WHERE")
	assert.Len(t, params, 3)

	sql, params, err = CompileCount(refTable(), Query{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM document_types", sql)
	assert.Empty(t, params)
}

// TestCompile_MissingTableName tests the only hard error.
func TestCompile_MissingTableName(t *testing.T) {
	_, _, err := Compile(Table{}, Query{})
	assert.Error(t, err)

	_, _, err = CompileCount(Table{}, Query{})
	assert.Error(t, err)
}
