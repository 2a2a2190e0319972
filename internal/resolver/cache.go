package resolver

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores finished resolutions keyed on the classification of the
// source URL. Injected so tests can swap in a no-op.
type Cache interface {
	Get(key string) (*ResultData, bool)
	Add(key string, data *ResultData)
}

// LRUCache is a bounded TTL cache over hashicorp's expirable LRU.
type LRUCache struct {
	lru *expirable.LRU[string, *ResultData]
}

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		lru: expirable.NewLRU[string, *ResultData](size, nil, ttl),
	}
}

func (c *LRUCache) Get(key string) (*ResultData, bool) {
	return c.lru.Get(key)
}

func (c *LRUCache) Add(key string, data *ResultData) {
	c.lru.Add(key, data)
}

// NopCache disables caching.
type NopCache struct{}

func (NopCache) Get(string) (*ResultData, bool) { return nil, false }
func (NopCache) Add(string, *ResultData)        {}
