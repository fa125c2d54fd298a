package explore

import (
	"sort"
	"strings"
	"time"
)

// Entry is one row of an explore list.
type Entry struct {
	PrimaryAddress string    `json:"primaryAddress"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	Tags           []string  `json:"tags"`
	Owner          *string   `json:"owner"`
	IsPinned       bool      `json:"isPinned"`
	LastChangedAt  time.Time `json:"lastChangedAt"`

	CreatedAt     time.Time  `json:"-"`
	LastVisitedAt *time.Time `json:"-"`
}

// Apply filters and sorts entries in place and returns the filtered slice.
func Apply(entries []Entry, q Query) []Entry {
	filtered := entries[:0]
	for _, e := range entries {
		if q.matches(e) {
			filtered = append(filtered, e)
		}
	}
	sort.SliceStable(filtered, lessFunc(filtered, q.Sort))
	return filtered
}

func (q Query) matches(e Entry) bool {
	if q.Type != nil && e.Type != *q.Type {
		return false
	}
	if q.Search == nil {
		return true
	}
	needle := strings.ToLower(*q.Search)
	if strings.Contains(strings.ToLower(e.Title), needle) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func lessFunc(entries []Entry, mode SortMode) func(i, j int) bool {
	switch mode {
	case SortTitleAsc:
		return func(i, j int) bool { return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title) }
	case SortTitleDesc:
		return func(i, j int) bool { return strings.ToLower(entries[i].Title) > strings.ToLower(entries[j].Title) }
	case SortCreatedAtAsc:
		return func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) }
	case SortLastVisitedAsc, SortLastVisitedDesc:
		desc := mode == SortLastVisitedDesc
		return func(i, j int) bool {
			a, b := entries[i].LastVisitedAt, entries[j].LastVisitedAt
			// Unvisited notes go last in both directions.
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			if desc {
				return a.After(*b)
			}
			return a.Before(*b)
		}
	}
	return func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) }
}
