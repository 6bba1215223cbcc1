package queryparams

import "testing"

func TestValidateClamps(t *testing.T) {
	p := ListParams{Page: -3, PerPage: 500, OrderBy: "sideways"}
	p.Validate()
	if p.Page != DefaultPage {
		t.Errorf("page: got %d", p.Page)
	}
	if p.PerPage != MaxPerPage {
		t.Errorf("per_page: got %d", p.PerPage)
	}
	if p.SortBy != DefaultSortBy || p.OrderBy != DefaultOrderBy {
		t.Errorf("sort defaults: got %s %s", p.SortBy, p.OrderBy)
	}

	p = ListParams{Page: 2, PerPage: 10, SortBy: "title", OrderBy: "asc"}
	p.Validate()
	if p.Page != 2 || p.PerPage != 10 || p.SortBy != "title" || p.OrderBy != "asc" {
		t.Errorf("valid params altered: %+v", p)
	}
}

func TestCalculateOffset(t *testing.T) {
	p := ListParams{Page: 3, PerPage: 20}
	if got := p.CalculateOffset(); got != 40 {
		t.Errorf("offset: got %d", got)
	}
}

func TestCalculateTotalPages(t *testing.T) {
	cases := []struct {
		items   int64
		perPage int
		want    int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 0, 0},
	}
	for _, tc := range cases {
		if got := CalculateTotalPages(tc.items, tc.perPage); got != tc.want {
			t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tc.items, tc.perPage, got, tc.want)
		}
	}
}
