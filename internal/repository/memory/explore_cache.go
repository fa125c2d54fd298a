package memory

import (
	"time"

	"collabnote-be/pkg/explore"

	"github.com/patrickmn/go-cache"
)

// ExploreCache keeps rendered explore lists for a short time.
type ExploreCache struct {
	cache *cache.Cache
}

func NewExploreCache(ttl time.Duration) *ExploreCache {
	return &ExploreCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

// Save and Get both copy entries deeply, so the cached lists never share
// memory with a caller.
func (r *ExploreCache) Save(key string, entries []explore.Entry) {
	r.cache.Set(key, cloneEntries(entries), cache.DefaultExpiration)
}

func (r *ExploreCache) Get(key string) ([]explore.Entry, bool) {
	if x, found := r.cache.Get(key); found {
		return cloneEntries(x.([]explore.Entry)), true
	}
	return nil, false
}

func (r *ExploreCache) Flush() {
	r.cache.Flush()
}

func (r *ExploreCache) Len() int {
	return r.cache.ItemCount()
}

func cloneEntries(entries []explore.Entry) []explore.Entry {
	out := make([]explore.Entry, len(entries))
	for i, e := range entries {
		if e.Tags != nil {
			tags := make([]string, len(e.Tags))
			copy(tags, e.Tags)
			e.Tags = tags
		}
		if e.Owner != nil {
			owner := *e.Owner
			e.Owner = &owner
		}
		if e.LastVisitedAt != nil {
			visited := *e.LastVisitedAt
			e.LastVisitedAt = &visited
		}
		out[i] = e
	}
	return out
}
