// Package explore builds, parses and applies the list queries of the explore page.
package explore

import (
	"fmt"
	"net/url"
	"strings"
)

type SortMode string

const (
	SortTitleAsc        SortMode = "title_asc"
	SortTitleDesc       SortMode = "title_desc"
	SortCreatedAtAsc    SortMode = "created_at_asc"
	SortCreatedAtDesc   SortMode = "created_at_desc"
	SortLastVisitedAsc  SortMode = "last_visited_asc"
	SortLastVisitedDesc SortMode = "last_visited_desc"

	DefaultSort = SortCreatedAtDesc
)

func (m SortMode) IsValid() bool {
	switch m {
	case SortTitleAsc, SortTitleDesc, SortCreatedAtAsc, SortCreatedAtDesc, SortLastVisitedAsc, SortLastVisitedDesc:
		return true
	}
	return false
}

// Query holds the list options; Search and Type are optional.
type Query struct {
	Sort   SortMode
	Search *string
	Type   *string
}

// Encode renders the query string. sort is always present; search and type
// only when set. Parameter order is fixed: sort, search, type.
func (q Query) Encode() string {
	sort := q.Sort
	if sort == "" {
		sort = DefaultSort
	}
	parts := []string{"sort=" + url.QueryEscape(string(sort))}
	if q.Search != nil && *q.Search != "" {
		parts = append(parts, "search="+url.QueryEscape(*q.Search))
	}
	if q.Type != nil && *q.Type != "" {
		parts = append(parts, "type="+url.QueryEscape(*q.Type))
	}
	return strings.Join(parts, "&")
}

// ParseQuery validates sort and type. Missing sort falls back to DefaultSort.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{Sort: DefaultSort}

	if raw := values.Get("sort"); raw != "" {
		mode := SortMode(raw)
		if !mode.IsValid() {
			return Query{}, fmt.Errorf("unknown sort mode %q", raw)
		}
		q.Sort = mode
	}
	if raw := strings.TrimSpace(values.Get("search")); raw != "" {
		q.Search = &raw
	}
	if raw := values.Get("type"); raw != "" {
		if raw != "document" && raw != "slide" {
			return Query{}, fmt.Errorf("unknown note type %q", raw)
		}
		q.Type = &raw
	}
	return q, nil
}
