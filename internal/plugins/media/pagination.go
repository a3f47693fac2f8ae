package media

import "strconv"

// ListOptions selects one page of a listing.
type ListOptions struct {
	Page    int
	PerPage int
}

// Offset returns the SQL offset for the page.
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.PerPage
}

// Page describes one page of results for rendering pagination controls.
type Page struct {
	Number     int
	PerPage    int
	TotalItems int
	TotalPages int
}

// NewPage builds a Page, clamping the number into the valid range. An empty
// result set still has one (empty) page so templates never divide by zero.
func NewPage(number, perPage, totalItems int) Page {
	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	return Page{Number: number, PerPage: perPage, TotalItems: totalItems, TotalPages: totalPages}
}

// HasPrevious reports whether a previous page exists.
func (p Page) HasPrevious() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// PageGap marks an elided run of page numbers in ElidedRange output.
const PageGap = "…"

const (
	elidedOnEachSide = 3
	elidedOnEnds     = 2
)

// ElidedRange returns page labels for pagination controls, eliding the
// middle of long ranges: up to three pages on either side of the current
// page, the first and last two pages, and PageGap markers between runs.
// Short ranges come back complete with no gaps.
func (p Page) ElidedRange() []string {
	if p.TotalPages <= (elidedOnEachSide+elidedOnEnds)*2 {
		return pageLabels(1, p.TotalPages)
	}

	var out []string
	if p.Number > (elidedOnEachSide + elidedOnEnds + 1) {
		out = append(out, pageLabels(1, elidedOnEnds)...)
		out = append(out, PageGap)
		out = append(out, pageLabels(p.Number-elidedOnEachSide, p.Number)...)
	} else {
		out = append(out, pageLabels(1, p.Number)...)
	}

	if p.Number < (p.TotalPages - elidedOnEachSide - elidedOnEnds) {
		out = append(out, pageLabels(p.Number+1, p.Number+elidedOnEachSide)...)
		out = append(out, PageGap)
		out = append(out, pageLabels(p.TotalPages-elidedOnEnds+1, p.TotalPages)...)
	} else {
		out = append(out, pageLabels(p.Number+1, p.TotalPages)...)
	}
	return out
}

func pageLabels(from, to int) []string {
	labels := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		labels = append(labels, strconv.Itoa(n))
	}
	return labels
}
