package poolcache

// Option applies a configuration option to the cache.
type Option func(*inMemoryCache)

// WithMaxSize sets the maximum number of pools kept.
// If maxSize > 0: bounded mode, the oldest pool is evicted first.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxSize
	}
}

// WithObserver sets hooks called on hits and misses.
func WithObserver(o Observer) Option {
	return func(c *inMemoryCache) {
		if o != nil {
			c.observer = o
		}
	}
}
