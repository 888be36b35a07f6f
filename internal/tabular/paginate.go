package tabular

// DefaultMaxButtons is the default display budget for page buttons.
const DefaultMaxButtons = 7

// PageButton is one element of a windowed page-button list: either a page
// number or an ellipsis marker for a collapsed range.
type PageButton struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// TotalPages derives the page count for a total item count and page size.
// Always at least 1, even for zero items; a non-positive page size is
// treated as 1.
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if totalItems < 1 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// ClampPage forces a 1-based page number into [1, totalPages].
// Out-of-range requests are clamped, never rejected.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageSlice returns the rows of the given 1-based page. The page number is
// clamped to the valid range first; the final page may be short.
func PageSlice[T any](rows []T, page, pageSize int) []T {
	if pageSize < 1 {
		pageSize = 1
	}
	page = ClampPage(page, TotalPages(len(rows), pageSize))

	start := (page - 1) * pageSize
	if start >= len(rows) {
		return rows[len(rows):]
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// PageWindow computes the windowed page-button list for a pager with
// ellipsis collapsing.
//
// When totalPages fits in maxButtons every page gets a button. Otherwise
// page 1 and the last page are always present, a window of pages is centered
// on currentPage (anchored when near either edge), and ellipsis markers
// stand in for the collapsed ranges.
//
// Example (currentPage=10, totalPages=20, maxButtons=7):
//
//	[1 … 8 9 10 11 12 … 20]
func PageWindow(currentPage, totalPages, maxButtons int) []PageButton {
	if maxButtons < 1 {
		maxButtons = DefaultMaxButtons
	}
	if totalPages < 1 {
		totalPages = 1
	}
	currentPage = ClampPage(currentPage, totalPages)

	if totalPages <= maxButtons {
		buttons := make([]PageButton, 0, totalPages)
		for p := 1; p <= totalPages; p++ {
			buttons = append(buttons, PageButton{Page: p})
		}
		return buttons
	}

	half := (maxButtons - 3) / 2
	start := max(2, currentPage-half)
	end := min(totalPages-1, currentPage+half)

	// Anchor the window when the current page sits near either edge.
	if currentPage <= half+2 {
		end = min(totalPages-1, maxButtons-2)
	}
	if currentPage >= totalPages-half-1 {
		start = max(2, totalPages-maxButtons+3)
	}

	buttons := []PageButton{{Page: 1}}
	if start > 2 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	for p := start; p <= end; p++ {
		buttons = append(buttons, PageButton{Page: p})
	}
	if end < totalPages-1 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	buttons = append(buttons, PageButton{Page: totalPages})

	return buttons
}
