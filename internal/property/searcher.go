package property

import (
	"time"

	"github.com/karlseguin/ccache/v3"
)

// Cache event names passed to a Searcher's observer.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Searcher runs searches over a Catalog and remembers the results.
// The catalog never changes, so cached results are never stale.
type Searcher struct {
	catalog *Catalog
	cache   *ccache.Cache[[]Property]
	ttl     time.Duration
	observe func(event string)
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithCacheObserver registers a callback for cache hits and misses.
func WithCacheObserver(fn func(event string)) SearcherOption {
	return func(s *Searcher) { s.observe = fn }
}

// NewSearcher creates a Searcher caching up to size distinct criteria.
func NewSearcher(c *Catalog, size int64, opts ...SearcherOption) *Searcher {
	if size <= 0 {
		size = 256
	}
	s := &Searcher{
		catalog: c,
		cache:   ccache.New(ccache.Configure[[]Property]().MaxSize(size)),
		ttl:     time.Hour,
		observe: func(string) {},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Search returns a fresh copy of the matching properties.
func (s *Searcher) Search(c Criteria) []Property {
	if c.IsEmpty() {
		return s.catalog.All()
	}

	key := c.Key()
	if item := s.cache.Get(key); item != nil && !item.Expired() {
		s.observe(CacheHit)
		return cloneAll(item.Value())
	}

	s.observe(CacheMiss)
	res := Search(s.catalog.props, c)
	s.cache.Set(key, res, s.ttl)
	return cloneAll(res)
}

// Stop releases the cache's background worker.
func (s *Searcher) Stop() {
	s.cache.Stop()
}
