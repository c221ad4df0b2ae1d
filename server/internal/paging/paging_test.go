package paging

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_Window(t *testing.T) {
	tests := []struct {
		name          string
		n             int
		offset, limit int
		want          []int
	}{
		{name: "full", n: 3, offset: 0, limit: 128, want: []int{0, 1, 2}},
		{name: "middle", n: 10, offset: 3, limit: 4, want: []int{3, 4, 5, 6}},
		{name: "truncated", n: 3, offset: 1, limit: 5, want: []int{1, 2}},
		{name: "offset at end", n: 3, offset: 3, limit: 2, want: []int{}},
		{name: "offset past end", n: 3, offset: 10, limit: 2, want: []int{}},
		{name: "zero limit", n: 3, offset: 0, limit: 0, want: []int{}},
		{name: "empty sequence", n: 0, offset: 0, limit: 10, want: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(seq(tt.n), tt.offset, tt.limit, Ascending)
			assert.Equal(t, tt.want, p.Items)
			assert.Equal(t, len(tt.want), p.RecordSize)
			assert.Equal(t, tt.n, p.TotalCount)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

// Descending reverses the window only: offset 1 limit 2 over [0..4] yields
// [2 1], not [3 2].
func TestPaginate_DescendingReversesWindow(t *testing.T) {
	p := Paginate(seq(5), 1, 2, Descending)
	assert.Equal(t, []int{2, 1}, p.Items)
	assert.Equal(t, 2, p.RecordSize)
	assert.Equal(t, 5, p.TotalCount)
}

func TestPaginate_DescIsReversedAsc(t *testing.T) {
	s := seq(17)
	for offset := 0; offset <= 20; offset += 3 {
		for limit := 0; limit <= 20; limit += 4 {
			t.Run(fmt.Sprintf("o%d_l%d", offset, limit), func(t *testing.T) {
				asc := Paginate(s, offset, limit, Ascending)
				desc := Paginate(s, offset, limit, Descending)
				assert.Equal(t, asc.RecordSize, desc.RecordSize)
				assert.Equal(t, asc.TotalCount, desc.TotalCount)
				for i := range asc.Items {
					assert.Equal(t, asc.Items[i], desc.Items[len(desc.Items)-1-i])
				}
			})
		}
	}
}

func TestPaginate_Idempotent(t *testing.T) {
	s := seq(9)
	first := Paginate(s, 2, 5, Descending)
	second := Paginate(s, 2, 5, Descending)
	assert.Equal(t, first, second)
	assert.Equal(t, seq(9), s, "source must not be reordered")
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, Descending, ParseOrder("desc"))
	assert.Equal(t, Ascending, ParseOrder("asc"))
	assert.Equal(t, Ascending, ParseOrder(""))
	assert.Equal(t, Ascending, ParseOrder("DESC"))
	assert.Equal(t, Ascending, ParseOrder("random"))
}
