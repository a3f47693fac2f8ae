package media

import (
	"reflect"
	"testing"
)

func TestListOptionsOffset(t *testing.T) {
	cases := []struct {
		page, perPage, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{5, 25, 100},
		{0, 10, 0},
		{-3, 10, 0},
	}
	for _, tc := range cases {
		opts := ListOptions{Page: tc.page, PerPage: tc.perPage}
		if got := opts.Offset(); got != tc.want {
			t.Errorf("Offset(page=%d, perPage=%d) = %d, want %d", tc.page, tc.perPage, got, tc.want)
		}
	}
}

func TestNewPageClamping(t *testing.T) {
	p := NewPage(0, 10, 35)
	if p.Number != 1 || p.TotalPages != 4 {
		t.Errorf("NewPage(0, 10, 35) = %+v", p)
	}

	p = NewPage(99, 10, 35)
	if p.Number != 4 {
		t.Errorf("expected clamp to last page, got %d", p.Number)
	}

	p = NewPage(1, 10, 0)
	if p.TotalPages != 1 || p.HasNext() || p.HasPrevious() {
		t.Errorf("empty result set should have a single page: %+v", p)
	}
}

func TestElidedRangeShort(t *testing.T) {
	p := NewPage(3, 10, 95) // 10 pages, no elision
	want := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}
	if got := p.ElidedRange(); !reflect.DeepEqual(got, want) {
		t.Errorf("ElidedRange = %v, want %v", got, want)
	}
}

func TestElidedRangeMiddle(t *testing.T) {
	p := NewPage(10, 10, 200) // 20 pages, current in the middle
	want := []string{"1", "2", PageGap, "7", "8", "9", "10", "11", "12", "13", PageGap, "19", "20"}
	if got := p.ElidedRange(); !reflect.DeepEqual(got, want) {
		t.Errorf("ElidedRange = %v, want %v", got, want)
	}
}

func TestElidedRangeNearStart(t *testing.T) {
	p := NewPage(2, 10, 200)
	want := []string{"1", "2", "3", "4", "5", PageGap, "19", "20"}
	if got := p.ElidedRange(); !reflect.DeepEqual(got, want) {
		t.Errorf("ElidedRange = %v, want %v", got, want)
	}
}

// Eliding starts as soon as the current page exceeds the ends-plus-side
// window (page 7 of 20 with the defaults), so a gap may stand in for a
// single page; page 14 mirrors this on the trailing side.
func TestElidedRangeBoundary(t *testing.T) {
	p := NewPage(7, 10, 200)
	want := []string{"1", "2", PageGap, "4", "5", "6", "7", "8", "9", "10", PageGap, "19", "20"}
	if got := p.ElidedRange(); !reflect.DeepEqual(got, want) {
		t.Errorf("page 7: ElidedRange = %v, want %v", got, want)
	}

	p = NewPage(6, 10, 200)
	want = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", PageGap, "19", "20"}
	if got := p.ElidedRange(); !reflect.DeepEqual(got, want) {
		t.Errorf("page 6: ElidedRange = %v, want %v", got, want)
	}

	p = NewPage(14, 10, 200)
	want = []string{"1", "2", PageGap, "11", "12", "13", "14", "15", "16", "17", PageGap, "19", "20"}
	if got := p.ElidedRange(); !reflect.DeepEqual(got, want) {
		t.Errorf("page 14: ElidedRange = %v, want %v", got, want)
	}

	p = NewPage(15, 10, 200)
	want = []string{"1", "2", PageGap, "12", "13", "14", "15", "16", "17", "18", "19", "20"}
	if got := p.ElidedRange(); !reflect.DeepEqual(got, want) {
		t.Errorf("page 15: ElidedRange = %v, want %v", got, want)
	}
}

func TestElidedRangeNearEnd(t *testing.T) {
	p := NewPage(19, 10, 200)
	want := []string{"1", "2", PageGap, "16", "17", "18", "19", "20"}
	if got := p.ElidedRange(); !reflect.DeepEqual(got, want) {
		t.Errorf("ElidedRange = %v, want %v", got, want)
	}
}
