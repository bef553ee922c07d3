package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// ReadCache holds single-resource read projections. A nil *ReadCache is a
// valid, always-missing cache.
type ReadCache struct {
	c *cache.Cache
}

func NewReadCache(ttl time.Duration) *ReadCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReadCache{c: cache.New(ttl, 2*ttl)}
}

func (rc *ReadCache) get(key string) (any, bool) {
	if rc == nil {
		return nil, false
	}
	return rc.c.Get(key)
}

func (rc *ReadCache) set(key string, v any) {
	if rc == nil {
		return
	}
	rc.c.SetDefault(key, v)
}

func (rc *ReadCache) invalidate(keys ...string) {
	if rc == nil {
		return
	}
	for _, k := range keys {
		rc.c.Delete(k)
	}
}

// Len is the number of live entries.
func (rc *ReadCache) Len() int {
	if rc == nil {
		return 0
	}
	return rc.c.ItemCount()
}

func manufacturerKey(id int64) string { return fmt.Sprintf("manufacturer:%d", id) }
func beerKey(id int64) string         { return fmt.Sprintf("beer:%d", id) }
