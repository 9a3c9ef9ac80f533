package jikan

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
)

// MaxLimit is the largest page size the API accepts
const MaxLimit = 25

// BuildListQuery converts a list request into /anime query parameters.
// Unset fields are omitted rather than sent empty.
func BuildListQuery(q domain.ListQuery) url.Values {
	v := url.Values{}

	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(min(q.Limit, MaxLimit)))
	}

	c := q.Criteria
	setIf(v, "q", strings.TrimSpace(c.Search))
	setIf(v, "type", string(c.Type))
	setIf(v, "rating", string(c.Rating))
	setIf(v, "status", string(c.Status))
	setIf(v, "genres", joinIDs(c.Genres))
	setIf(v, "genres_exclude", joinIDs(c.ExcludedGenres))
	setIf(v, "producers", joinIDs(c.Producers))
	setIf(v, "order_by", string(c.OrderBy))
	setIf(v, "sort", string(c.Sort))
	setIf(v, "start_date", formatDate(c.StartDate))
	setIf(v, "end_date", formatDate(c.EndDate))

	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}
