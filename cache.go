package leadpress

import (
	"sync"
	"time"

	"github.com/nomadic/leadpress/content"
)

// postCache is an in-memory cache of the post list with TTL. Every admin
// mutation invalidates it, so a single process always reads its own writes.
type postCache struct {
	mu      sync.RWMutex
	posts   []*content.BlogPost
	fetched time.Time
	ttl     time.Duration
	store   *content.Store
}

func newPostCache(s *content.Store, ttl time.Duration) *postCache {
	return &postCache{store: s, ttl: ttl}
}

func (c *postCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *postCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached posts after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *postCache) ensureLoaded() ([]*content.BlogPost, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListAll()
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*content.BlogPost{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// ListAll returns all posts, date-descending.
func (c *postCache) ListAll() ([]*content.BlogPost, error) {
	return c.ensureLoaded()
}

// GetBySlug returns a single post from the cache.
func (c *postCache) GetBySlug(slug string) (*content.BlogPost, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, content.ErrNotFound
}
