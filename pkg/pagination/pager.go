package pagination

// PageSize is the fixed number of clusters per page.
const PageSize = 50

// WindowSize is the maximum number of page links shown at once.
const WindowSize = 5

// TotalPages returns ceil(total/size), 0 for an empty result set.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Skip returns the offset of the first item on page (1-based).
func Skip(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// Window returns the page numbers to render around current: at most
// WindowSize consecutive pages starting at
// max(1, min(totalPages-4, current-2)), without pages past totalPages.
func Window(current, totalPages int) []int {
	start := min(totalPages-(WindowSize-1), current-2)
	start = max(1, start)

	pages := make([]int, 0, WindowSize)
	for p := start; p < start+WindowSize; p++ {
		if p > totalPages {
			break
		}
		pages = append(pages, p)
	}
	return pages
}

// HasPrev reports whether "Previous" is enabled.
func HasPrev(current int) bool {
	return current > 1
}

// HasNext reports whether "Next" is enabled.
func HasNext(current, totalPages int) bool {
	return current < totalPages
}

// ShowPager reports whether pagination controls are rendered at all.
func ShowPager(totalPages int) bool {
	return totalPages > 1
}

// Pager is the render model of the pagination controls.
type Pager struct {
	Current    int
	TotalPages int
	Pages      []int
	HasPrev    bool
	HasNext    bool
}

// NewPager computes the controls for current out of totalCount items.
// Visible is false when no pager should be rendered.
func NewPager(current, totalCount int) (pager Pager, visible bool) {
	total := TotalPages(totalCount, PageSize)
	pager = Pager{
		Current:    current,
		TotalPages: total,
		Pages:      Window(current, total),
		HasPrev:    HasPrev(current),
		HasNext:    HasNext(current, total),
	}
	return pager, ShowPager(total)
}

// Prev returns the previous page number.
func (p Pager) Prev() int { return p.Current - 1 }

// Next returns the next page number.
func (p Pager) Next() int { return p.Current + 1 }
