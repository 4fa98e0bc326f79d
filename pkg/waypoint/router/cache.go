package router

import "sync"

const defaultMaxCacheSize = 5

// ContainerCache keeps released containers around so an unwound node can be
// presented again without rebuilding its UI. Entries are evicted in least
// recently used order; the evict callback is where containers get destroyed.
type ContainerCache struct {
	mu         sync.Mutex
	containers map[string]Container
	order      []string // tracks use order for LRU eviction
	maxSize    int
	evict      func(id string, c Container)
}

// NewContainerCache creates a cache holding up to five containers.
func NewContainerCache(evict func(id string, c Container)) *ContainerCache {
	return NewContainerCacheWithSize(defaultMaxCacheSize, evict)
}

// NewContainerCacheWithSize creates a cache holding up to maxSize containers.
// A maxSize below one disables caching; every Put is evicted right away.
func NewContainerCacheWithSize(maxSize int, evict func(id string, c Container)) *ContainerCache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &ContainerCache{
		containers: make(map[string]Container),
		order:      make([]string, 0, maxSize),
		maxSize:    maxSize,
		evict:      evict,
	}
}

// Take removes and returns the container cached for id.
func (c *ContainerCache) Take(id string) (Container, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	container, exists := c.containers[id]
	if !exists {
		return nil, false
	}
	delete(c.containers, id)
	c.remove(id)
	return container, true
}

// Put stores container for id, evicting the least recently used entry when
// the cache is full.
func (c *ContainerCache) Put(id string, container Container) {
	var evicted []entry

	c.mu.Lock()
	if _, exists := c.containers[id]; exists {
		c.containers[id] = container
		c.remove(id)
		c.order = append(c.order, id)
		c.mu.Unlock()
		return
	}

	if c.maxSize == 0 {
		c.mu.Unlock()
		c.fire([]entry{{id, container}})
		return
	}

	for len(c.order) >= c.maxSize {
		evicted = append(evicted, c.evictOldest())
	}
	c.containers[id] = container
	c.order = append(c.order, id)
	c.mu.Unlock()

	c.fire(evicted)
}

// Len returns the number of cached containers.
func (c *ContainerCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.containers)
}

// Purge evicts every cached container.
func (c *ContainerCache) Purge() {
	c.mu.Lock()
	evicted := make([]entry, 0, len(c.order))
	for _, id := range c.order {
		evicted = append(evicted, entry{id, c.containers[id]})
	}
	c.containers = make(map[string]Container)
	c.order = c.order[:0]
	c.mu.Unlock()

	c.fire(evicted)
}

type entry struct {
	id        string
	container Container
}

func (c *ContainerCache) remove(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *ContainerCache) evictOldest() entry {
	oldest := c.order[0]
	c.order = c.order[1:]
	e := entry{oldest, c.containers[oldest]}
	delete(c.containers, oldest)
	return e
}

// fire runs the evict callback outside the lock so it may use the cache.
func (c *ContainerCache) fire(evicted []entry) {
	if c.evict == nil {
		return
	}
	for _, e := range evicted {
		c.evict(e.id, e.container)
	}
}
