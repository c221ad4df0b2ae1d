package paging

import "slices"

// Order is the presentation order of a page.
type Order int

const (
	Ascending Order = iota
	Descending
)

// ParseOrder maps the sortBy query value to an Order. Only "desc" selects
// Descending; anything else, including "", is Ascending.
func ParseOrder(s string) Order {
	if s == "desc" {
		return Descending
	}
	return Ascending
}

func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Page is one window of a sequence.
type Page[T any] struct {
	Items      []T
	Offset     int
	RecordSize int
	TotalCount int
}

// Paginate selects seq[offset:offset+limit] in natural order, truncated at the
// end of seq. For Descending the selected window is reversed; the window
// itself is always taken from the natural order, so desc pages walk the
// sequence from the front, not the tail.
//
// offset and limit must be non-negative. seq is never modified.
func Paginate[T any](seq []T, offset, limit int, order Order) Page[T] {
	total := len(seq)
	start := min(offset, total)
	end := start + min(limit, total-start)

	items := make([]T, end-start)
	copy(items, seq[start:end])
	if order == Descending {
		slices.Reverse(items)
	}

	return Page[T]{
		Items:      items,
		Offset:     offset,
		RecordSize: len(items),
		TotalCount: total,
	}
}
