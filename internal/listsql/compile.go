package listsql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docwatch/docwatch/internal/tabular"
)

// ColumnType selects the comparison behavior of a whitelisted column.
type ColumnType int

const (
	// Text columns order case-insensitively and participate in search.
	Text ColumnType = iota
	// Numeric columns order arithmetically and are excluded from search.
	Numeric
)

// Table whitelists the columns a caller may search and sort on.
// Column names in the whitelist are trusted; everything user-supplied is
// bound as a parameter.
type Table struct {
	// Name is the SQL table name.
	Name string
	// Columns maps exposed column keys to their type.
	Columns map[string]ColumnType
}

// Query is the list request to compile, mirroring the engine's server-mode
// handler payload.
type Query struct {
	Search   string
	Sorts    []tabular.SortEntry
	Page     int
	PageSize int
}

// Compile produces the SELECT statement and parameters for one page of
// list results.
//
// Search compiles to an OR of LIKE predicates over the text columns. Sort
// entries apply in ascending priority order; entries naming columns outside
// the whitelist are skipped rather than rejected, mirroring the engine's
// silent-degradation policy. An id tiebreaker is always appended.
func Compile(t Table, q Query) (string, []any, error) {
	if t.Name == "" {
		return "", nil, fmt.Errorf("table name is required")
	}

	where, params := compileSearch(t, q.Search)
	orderBy := compileOrder(t, q.Sorts)
	limit, limitParams := compileLimit(q)

	sql := fmt.Sprintf("SELECT * FROM %s%s%s%s", t.Name, where, orderBy, limit)
	return sql, append(params, limitParams...), nil
}

// CompileCount produces the matching COUNT(*) statement for the same
// search, without ordering or pagination.
func CompileCount(t Table, q Query) (string, []any, error) {
	if t.Name == "" {
		return "", nil, fmt.Errorf("table name is required")
	}

	where, params := compileSearch(t, q.Search)
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.Name, where)
	return sql, params, nil
}

// compileSearch builds the WHERE clause for a free-text search.
// Returns ("", nil) when the query is empty or no column is searchable.
func compileSearch(t Table, search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}

	cols := textColumns(t)
	if len(cols) == 0 {
		return "", nil
	}

	needle := "%" + escapeLike(search) + "%"
	predicates := make([]string, 0, len(cols))
	params := make([]any, 0, len(cols))
	for _, col := range cols {
		predicates = append(predicates, fmt.Sprintf("%s LIKE ? ESCAPE '\\'", col))
		params = append(params, needle)
	}

	return " WHERE " + strings.Join(predicates, " OR "), params
}

// compileOrder builds the ORDER BY clause from sort entries in priority
// order, always ending with the deterministic id tiebreaker.
func compileOrder(t Table, entries []tabular.SortEntry) string {
	ordered := make([]tabular.SortEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	terms := make([]string, 0, len(ordered)+1)
	for _, e := range ordered {
		colType, ok := t.Columns[e.Column]
		if !ok {
			continue // unknown sort column: skip, don't error
		}
		dir := "ASC"
		if e.Direction == tabular.Descending {
			dir = "DESC"
		}
		if colType == Text {
			terms = append(terms, fmt.Sprintf("%s COLLATE NOCASE %s", e.Column, dir))
		} else {
			terms = append(terms, fmt.Sprintf("%s %s", e.Column, dir))
		}
	}
	terms = append(terms, "id ASC")

	return " ORDER BY " + strings.Join(terms, ", ")
}

// compileLimit builds the LIMIT/OFFSET clause for a 1-based page.
// A missing or invalid page size disables pagination entirely.
func compileLimit(q Query) (string, []any) {
	if q.PageSize < 1 {
		return "", nil
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return " LIMIT ? OFFSET ?", []any{q.PageSize, (page - 1) * q.PageSize}
}

// textColumns returns the searchable column names in deterministic order.
func textColumns(t Table) []string {
	cols := make([]string, 0, len(t.Columns))
	for name, colType := range t.Columns {
		if colType == Text {
			cols = append(cols, name)
		}
	}
	sort.Strings(cols)
	return cols
}

// escapeLike escapes the LIKE wildcards in user input so a search for "10%"
// matches the literal text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
