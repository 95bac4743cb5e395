package http

import (
	"container/list"
	"sync"
	"time"

	"github.com/goya962/FinanceFlow/internal/core"
)

// summaryCache is an LRU cache with TTL for monthly summaries. Any write
// to the record set purges it wholesale; recomputing a summary is cheap,
// serving a stale one is not acceptable.
type summaryCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cacheItem struct {
	key       string
	data      core.MonthlySummary
	expiresAt time.Time
}

func newSummaryCache(maxSize int, ttl time.Duration) *summaryCache {
	return &summaryCache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *summaryCache) Get(key string) (core.MonthlySummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return core.MonthlySummary{}, false
	}

	item := elem.Value.(*cacheItem)
	if time.Now().After(item.expiresAt) {
		c.removeElement(elem)
		return core.MonthlySummary{}, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *summaryCache) Set(key string, data core.MonthlySummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem{key: key, data: data, expiresAt: time.Now().Add(c.ttl)}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// Purge drops every entry.
func (c *summaryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

func (c *summaryCache) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem)
	delete(c.items, item.key)
	c.lru.Remove(elem)
}
