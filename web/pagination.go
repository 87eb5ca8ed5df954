package web

// windowSize is the most page numbers shown at once.
const windowSize = 5

type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager is the pagination bar of a listing page. Prev and Next are empty at
// the bounds; First and Last are nil when the window already reaches them.
type Pager struct {
	Current          int
	Total            int
	Prev             string
	Next             string
	First            *PageLink
	Last             *PageLink
	LeadingEllipsis  bool
	TrailingEllipsis bool
	Pages            []PageLink
}

// PageWindow returns the first and last page numbers shown around current.
// The window holds up to five pages and is clamped to [1, total].
func PageWindow(current, total int) (start, end int) {
	start = max(1, current-windowSize/2)
	end = min(total, start+windowSize-1)
	if end-start+1 < windowSize {
		start = max(1, end-windowSize+1)
	}
	return start, end
}

// NewPager lays out the bar for current of total pages; link builds page URLs.
func NewPager(current, total int, link func(page int) string) Pager {
	p := Pager{Current: current, Total: total}
	if total < 1 {
		return p
	}

	start, end := PageWindow(current, total)
	for n := start; n <= end; n++ {
		p.Pages = append(p.Pages, PageLink{Number: n, URL: link(n), Current: n == current})
	}
	if start > 1 {
		p.First = &PageLink{Number: 1, URL: link(1)}
		p.LeadingEllipsis = start > 2
	}
	if end < total {
		p.Last = &PageLink{Number: total, URL: link(total)}
		p.TrailingEllipsis = end < total-1
	}
	if current > 1 {
		p.Prev = link(current - 1)
	}
	if current < total {
		p.Next = link(current + 1)
	}
	return p
}
