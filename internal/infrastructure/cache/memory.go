package cache

import (
	"context"
	"sync"

	"magnetdata-service/internal/application"
)

// Memory is the default process-local cache. Entries have no TTL; the
// cached value set is small per key and values for past dates never change.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ application.Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (c *Memory) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *Memory) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *Memory) Reset(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	return nil
}
