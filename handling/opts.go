package handling

import (
	"net/http"
	"strconv"

	"nightloom_server/catalog"
)

// ViewOptions are the query parameters shared by product listing endpoints.
type ViewOptions struct {
	View  catalog.View
	Limit int
}

// ParseViewOptions reads search, price bounds, and sort from the query
// string. Malformed numbers are ignored rather than rejected; a listing
// with a bad filter is still a listing.
func ParseViewOptions(r *http.Request) ViewOptions {
	q := r.URL.Query()

	view := catalog.View{
		Search: q.Get("search"),
		Sort:   catalog.ParseSortKey(q.Get("sort")),
	}

	if raw := q.Get("min_price"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			view.PriceMin = v
		}
	}
	if raw := q.Get("max_price"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			view.PriceMax = &v
		}
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	return ViewOptions{View: view, Limit: limit}
}
