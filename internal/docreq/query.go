package docreq

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/docwatch/docwatch/internal/tabular"
)

// Query carries the list parameters a server-mode table forwards upstream:
// free-text search, priority-ordered sort entries, and the requested page.
type Query struct {
	Search   string
	Sorts    []tabular.SortEntry
	Page     int
	PageSize int
}

// Values encodes the query as URL parameters.
//
// Sort entries serialize in priority order as repeated "sort=column:dir"
// parameters so the upstream applies them in the same order the engine
// holds them.
func (q Query) Values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	for _, e := range sortedByPriority(q.Sorts) {
		v.Add("sort", e.Column+":"+string(e.Direction))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

// ParseQuery decodes URL parameters produced by Values back into a Query.
// Malformed sort or paging parameters are dropped rather than rejected.
func ParseQuery(v url.Values) Query {
	q := Query{Search: strings.TrimSpace(v.Get("search"))}

	for _, raw := range v["sort"] {
		column, dir, ok := strings.Cut(raw, ":")
		if !ok || column == "" {
			continue
		}
		direction := tabular.Direction(dir)
		if direction != tabular.Ascending && direction != tabular.Descending {
			continue
		}
		q.Sorts = append(q.Sorts, tabular.SortEntry{
			Column:    column,
			Direction: direction,
			Priority:  len(q.Sorts),
		})
	}

	if page, err := strconv.Atoi(v.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if size, err := strconv.Atoi(v.Get("page_size")); err == nil && size > 0 {
		q.PageSize = size
	}
	return q
}

// sortedByPriority returns a copy of entries ordered by ascending priority.
func sortedByPriority(entries []tabular.SortEntry) []tabular.SortEntry {
	out := make([]tabular.SortEntry, len(entries))
	copy(out, entries)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority < out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
