package explore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleEntries() []Entry {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	visited := func(h int) *time.Time {
		v := base.Add(time.Duration(h) * time.Hour)
		return &v
	}
	return []Entry{
		{PrimaryAddress: "b", Title: "Beta", Type: "document", Tags: []string{"work"}, CreatedAt: base.Add(2 * time.Hour), LastVisitedAt: visited(5)},
		{PrimaryAddress: "a", Title: "alpha", Type: "slide", Tags: []string{"talk"}, CreatedAt: base.Add(1 * time.Hour)},
		{PrimaryAddress: "c", Title: "Gamma", Type: "document", Tags: []string{"Personal"}, CreatedAt: base.Add(3 * time.Hour), LastVisitedAt: visited(1)},
	}
}

func addresses(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.PrimaryAddress)
	}
	return out
}

func TestApplySort(t *testing.T) {
	tests := []struct {
		sort SortMode
		want []string
	}{
		{SortTitleAsc, []string{"a", "b", "c"}},
		{SortTitleDesc, []string{"c", "b", "a"}},
		{SortCreatedAtAsc, []string{"a", "b", "c"}},
		{SortCreatedAtDesc, []string{"c", "b", "a"}},
		{SortLastVisitedAsc, []string{"c", "b", "a"}},
		{SortLastVisitedDesc, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := Apply(sampleEntries(), Query{Sort: tt.sort})
			assert.Equal(t, tt.want, addresses(got))
		})
	}
}

func TestApplyFilter(t *testing.T) {
	t.Run("by type", func(t *testing.T) {
		got := Apply(sampleEntries(), Query{Sort: SortTitleAsc, Type: strPtr("document")})
		assert.Equal(t, []string{"b", "c"}, addresses(got))
	})

	t.Run("search matches title case-insensitively", func(t *testing.T) {
		got := Apply(sampleEntries(), Query{Sort: SortTitleAsc, Search: strPtr("ALPH")})
		assert.Equal(t, []string{"a"}, addresses(got))
	})

	t.Run("search matches tags", func(t *testing.T) {
		got := Apply(sampleEntries(), Query{Sort: SortTitleAsc, Search: strPtr("personal")})
		assert.Equal(t, []string{"c"}, addresses(got))
	})

	t.Run("no match", func(t *testing.T) {
		got := Apply(sampleEntries(), Query{Sort: SortTitleAsc, Search: strPtr("zzz")})
		assert.Empty(t, got)
	})
}
