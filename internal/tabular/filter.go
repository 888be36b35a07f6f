package tabular

import (
	"fmt"
	"strings"
)

// Filter keeps the rows whose extracted value for any of the given columns
// contains query as a case-insensitive substring.
//
// An empty or whitespace-only query returns the input slice unchanged (same
// backing array, no copy). Nullish cell values never match.
func Filter[T any](rows []T, query string, columns []Column[T]) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return rows
	}
	needle := strings.ToLower(query)

	matched := make([]T, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, needle, columns) {
			matched = append(matched, row)
		}
	}
	return matched
}

// rowMatches reports whether any declared column's value contains needle.
// needle must already be lowercased.
func rowMatches[T any](row T, needle string, columns []Column[T]) bool {
	for _, col := range columns {
		v := Extract(row, col.Key)
		if isNullish(v) {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}
