package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/config"
	"github.com/municipal-boundary-service/internal/domain"
	"github.com/municipal-boundary-service/internal/domain/repository"
)

// MemoryCache is the default in-process result cache: LRU capacity
// eviction plus per-source TTL, both applied lazily on access. The mutex
// guards only the map/list bookkeeping; geometry work never runs under it.
type MemoryCache struct {
	mu        sync.Mutex
	capacity  int
	localTTL  time.Duration
	remoteTTL time.Duration
	entries   map[string]*list.Element
	order     *list.List // front = most recently used
	logger    *zap.Logger

	now func() time.Time
}

type memoryEntry struct {
	key      string
	value    domain.ResolvedLocation
	storedAt time.Time
}

func NewMemoryCache(cfg *config.CacheConfig, logger *zap.Logger) repository.ResultCache {
	return &MemoryCache{
		capacity:  cfg.Capacity,
		localTTL:  cfg.LocalTTL,
		remoteTTL: cfg.RemoteTTL,
		entries:   make(map[string]*list.Element),
		order:     list.New(),
		logger:    logger,
		now:       time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, p domain.Point) (*domain.ResolvedLocation, error) {
	key := QuantizeKey(p)

	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, nil
	}

	entry := el.Value.(*memoryEntry)
	if c.expired(entry) {
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, nil
	}

	c.order.MoveToFront(el)
	value := entry.value
	return &value, nil
}

func (c *MemoryCache) Put(_ context.Context, p domain.Point, loc domain.ResolvedLocation) error {
	key := QuantizeKey(p)

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = loc
		entry.storedAt = c.now()
		c.order.MoveToFront(el)
		return nil
	}

	c.entries[key] = c.order.PushFront(&memoryEntry{
		key:      key,
		value:    loc,
		storedAt: c.now(),
	})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoryEntry).key)
	}

	return nil
}

func (c *MemoryCache) Len(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len(), nil
}

func (c *MemoryCache) expired(e *memoryEntry) bool {
	ttl := c.localTTL
	if e.value.Source == domain.SourceRemote {
		ttl = c.remoteTTL
	}
	return c.now().Sub(e.storedAt) > ttl
}
