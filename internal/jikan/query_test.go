package jikan

import (
	"testing"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
)

func TestBuildListQuery(t *testing.T) {
	date := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}

	tests := []struct {
		name string
		in   domain.ListQuery
		want string
	}{
		{
			name: "zero query still sends page",
			in:   domain.ListQuery{},
			want: "page=1",
		},
		{
			name: "limit capped",
			in:   domain.ListQuery{Page: 3, Limit: 100},
			want: "limit=25&page=3",
		},
		{
			name: "search is trimmed",
			in:   domain.ListQuery{Page: 1, Criteria: domain.FilterCriteria{Search: "  bebop "}},
			want: "page=1&q=bebop",
		},
		{
			name: "blank search omitted",
			in:   domain.ListQuery{Page: 1, Criteria: domain.FilterCriteria{Search: "   "}},
			want: "page=1",
		},
		{
			name: "every filter",
			in: domain.ListQuery{
				Page:  2,
				Limit: 24,
				Criteria: domain.FilterCriteria{
					Type:           domain.TypeTV,
					Rating:         domain.RatingPG13,
					Status:         domain.StatusAiring,
					Genres:         []int{1, 4},
					ExcludedGenres: []int{12},
					Producers:      []int{18},
					OrderBy:        domain.OrderStartDate,
					Sort:           domain.SortAsc,
					StartDate:      date("2020-01-01"),
					EndDate:        date("2021-06-30"),
				},
			},
			want: "end_date=2021-06-30&genres=1%2C4&genres_exclude=12&limit=24&order_by=start_date" +
				"&page=2&producers=18&rating=pg13&sort=asc&start_date=2020-01-01&status=airing&type=tv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildListQuery(tt.in).Encode(); got != tt.want {
				t.Errorf("BuildListQuery() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestMapPageWithoutPagination(t *testing.T) {
	page := MapPage(ListResponse{Data: []AnimeDTO{{MalID: 1, Title: "a"}}}, 4)
	if page.CurrentPage != 4 || page.LastPage != 0 || page.HasNext {
		t.Errorf("MapPage() = %+v, want requested page and no pagination", page)
	}
	if len(page.Items) != 1 {
		t.Errorf("items = %d, want 1", len(page.Items))
	}
}

func TestParseTime(t *testing.T) {
	if got := parseTime("not a date"); !got.IsZero() {
		t.Errorf("parseTime(bad) = %v, want zero", got)
	}
	if got := parseTime("2009-04-05T00:00:00+00:00"); got.Year() != 2009 || got.Month() != time.April {
		t.Errorf("parseTime() = %v", got)
	}
}
