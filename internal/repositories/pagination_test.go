package repositories

import "testing"

func TestPaginate(t *testing.T) {
	cases := []struct {
		total, page, per    int
		wantPage, wantPages int
		wantOffset          int
	}{
		{0, 1, 5, 1, 1, 0},
		{11, 1, 5, 1, 3, 0},
		{11, 3, 5, 3, 3, 10},
		{11, 9, 5, 3, 3, 10},
		{11, -2, 5, 1, 3, 0},
		{10, 2, 5, 2, 2, 5},
	}
	for _, tc := range cases {
		p := Paginate(tc.total, tc.page, tc.per)
		if p.Number != tc.wantPage || p.TotalPages != tc.wantPages || p.Offset() != tc.wantOffset {
			t.Fatalf("Paginate(%d,%d,%d) = %+v offset=%d", tc.total, tc.page, tc.per, p, p.Offset())
		}
	}
}
