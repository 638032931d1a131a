package cache

import (
	"context"
	"sync"
	"time"

	"github.com/splitfin/backend/internal/domain/intelligence"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryQuoteCache implements intelligence.QuoteCache in process memory.
// Entries are not shared across instances.
type InMemoryQuoteCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryQuoteCache creates the cache and starts its cleanup loop
func NewInMemoryQuoteCache() *InMemoryQuoteCache {
	c := &InMemoryQuoteCache{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop(5 * time.Minute)

	return c
}

// Get implements intelligence.QuoteCache
func (c *InMemoryQuoteCache) Get(_ context.Context, key string) (intelligence.SearchEvidence, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return intelligence.SearchEvidence{}, false, nil
	}

	ev, err := decodeEvidence(e.data)
	if err != nil {
		return intelligence.SearchEvidence{}, false, err
	}
	return ev, true, nil
}

// Set implements intelligence.QuoteCache. Entries are stored encoded so
// callers cannot mutate cached slices.
func (c *InMemoryQuoteCache) Set(_ context.Context, key string, evidence intelligence.SearchEvidence, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := encodeEvidence(evidence)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = entry{data: data, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryQuoteCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryQuoteCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryQuoteCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryQuoteCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ intelligence.QuoteCache = (*InMemoryQuoteCache)(nil)
