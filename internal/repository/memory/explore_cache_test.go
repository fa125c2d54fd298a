package memory

import (
	"testing"
	"time"

	"collabnote-be/pkg/explore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExploreCacheDoesNotShareEntries(t *testing.T) {
	owner := "alice"
	visited := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	saved := []explore.Entry{{
		PrimaryAddress: "note",
		Title:          "Title",
		Tags:           []string{"a", "b"},
		Owner:          &owner,
		LastVisitedAt:  &visited,
	}}

	c := NewExploreCache(time.Minute)
	c.Save("k", saved)

	// Mutating the saved slice after Save must not reach the cache.
	saved[0].Tags[0] = "changed"
	owner = "mallory"

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Len(t, got, 1)
	got[0].Title = "other"
	got[0].Tags[1] = "changed"
	*got[0].Owner = "eve"
	*got[0].LastVisitedAt = visited.Add(time.Hour)

	again, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "Title", again[0].Title)
	assert.Equal(t, []string{"a", "b"}, again[0].Tags)
	require.NotNil(t, again[0].Owner)
	assert.Equal(t, "alice", *again[0].Owner)
	assert.Equal(t, visited, *again[0].LastVisitedAt)
}

func TestExploreCacheKeepsEmptyTagsNonNil(t *testing.T) {
	c := NewExploreCache(time.Minute)
	c.Save("k", []explore.Entry{{PrimaryAddress: "note", Tags: []string{}}})

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.NotNil(t, got[0].Tags)
	assert.Empty(t, got[0].Tags)
}

func TestExploreCacheFlush(t *testing.T) {
	c := NewExploreCache(time.Minute)
	c.Save("a", nil)
	c.Save("b", []explore.Entry{})
	assert.Equal(t, 2, c.Len())

	c.Flush()
	assert.Zero(t, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}
