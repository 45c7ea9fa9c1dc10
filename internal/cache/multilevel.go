package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Cache interface {
	Set(key string, value interface{}, ttl time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	DeletePattern(pattern string) error
	Exists(key string) (bool, error)
	Stats() map[string]interface{}
	Health() error
	Close() error
}

type MultiLevelConfig struct {
	// L1TTL caps how long a value read from redis stays in process memory.
	// Other instances only see invalidations through redis, so keep it short.
	L1TTL   time.Duration
	Breaker *CircuitBreakerConfig
}

func DefaultMultiLevelConfig() *MultiLevelConfig {
	return &MultiLevelConfig{
		L1TTL:   30 * time.Second,
		Breaker: DefaultCircuitBreakerConfig(),
	}
}

// MultiLevelCache reads through process memory first and redis second.
// Values are held as JSON in both levels so callers never share memory
// with the cache. Without redis it is a plain in-process cache.
type MultiLevelCache struct {
	l1      *MemoryCache
	l2      *RedisCache
	breaker *CircuitBreaker
	metrics *CacheMetrics
	l1TTL   time.Duration
}

func NewMultiLevelCache(redisCache *RedisCache) *MultiLevelCache {
	return NewMultiLevelCacheWithConfig(redisCache, nil)
}

func NewMultiLevelCacheWithConfig(redisCache *RedisCache, config *MultiLevelConfig) *MultiLevelCache {
	if config == nil {
		config = DefaultMultiLevelConfig()
	}
	return &MultiLevelCache{
		l1:      NewMemoryCache(),
		l2:      redisCache,
		breaker: NewCircuitBreaker(config.Breaker),
		metrics: NewCacheMetrics(),
		l1TTL:   config.L1TTL,
	}
}

func (c *MultiLevelCache) l2Call(fn func() error) error {
	err := c.breaker.Execute(fn)
	if err == nil || errors.Is(err, ErrCacheMiss) {
		return err
	}
	c.metrics.RecordL2Error()
	return fmt.Errorf("%w: %w", ErrCacheDown, err)
}

func (c *MultiLevelCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.metrics.RecordError()
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.l1.Set(key, data, c.l1Expiry(ttl))
	c.metrics.RecordSet()

	if c.l2 != nil {
		return c.l2Call(func() error {
			return c.l2.Set(key, json.RawMessage(data), ttl)
		})
	}

	return nil
}

func (c *MultiLevelCache) Get(key string, dest interface{}) error {
	if value, found := c.l1.Get(key); found {
		if err := json.Unmarshal(value.([]byte), dest); err != nil {
			c.metrics.RecordError()
			return fmt.Errorf("failed to unmarshal cached data: %w", err)
		}
		c.metrics.RecordL1Hit()
		return nil
	}

	if c.l2 == nil {
		c.metrics.RecordMiss()
		return ErrCacheMiss
	}

	var raw json.RawMessage
	err := c.l2Call(func() error {
		return c.l2.Get(key, &raw)
	})
	if err != nil {
		c.metrics.RecordMiss()
		return err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.metrics.RecordError()
		return fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	c.metrics.RecordHit()
	c.l1.Set(key, []byte(raw), c.l1TTL)
	return nil
}

func (c *MultiLevelCache) l1Expiry(ttl time.Duration) time.Duration {
	if c.l2 == nil || ttl <= 0 {
		return ttl
	}
	return min(ttl, c.l1TTL)
}

func (c *MultiLevelCache) Delete(key string) error {
	c.l1.Delete(key)
	c.metrics.RecordDelete()

	if c.l2 != nil {
		return c.l2Call(func() error {
			return c.l2.Delete(key)
		})
	}

	return nil
}

func (c *MultiLevelCache) DeletePattern(pattern string) error {
	c.l1.DeletePattern(pattern)
	c.metrics.RecordDelete()

	if c.l2 != nil {
		return c.l2Call(func() error {
			return c.l2.DeletePattern(pattern)
		})
	}

	return nil
}

func (c *MultiLevelCache) Exists(key string) (bool, error) {
	if _, found := c.l1.Get(key); found {
		return true, nil
	}

	if c.l2 == nil {
		return false, nil
	}

	var exists bool
	err := c.l2Call(func() error {
		var err error
		exists, err = c.l2.Exists(key)
		return err
	})
	return exists, err
}

func (c *MultiLevelCache) Metrics() CacheMetrics {
	return c.metrics.GetStats()
}

func (c *MultiLevelCache) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"l1":       c.l1.Stats(),
		"metrics":  c.metrics.GetStats(),
		"hit_rate": c.metrics.HitRate(),
	}

	if c.l2 != nil {
		stats["l2"] = c.l2.Stats()
		stats["breaker"] = c.breaker.GetStats()
	}

	return stats
}

func (c *MultiLevelCache) Health() error {
	if c.l2 != nil {
		return c.l2.Health()
	}

	return nil
}

// StartCleanup sweeps expired L1 entries; redis expires L2 on its own.
func (c *MultiLevelCache) StartCleanup(ctx context.Context, interval time.Duration) {
	c.l1.StartCleanup(ctx, interval)
}

func (c *MultiLevelCache) Close() error {
	if c.l2 != nil {
		return c.l2.Close()
	}

	return nil
}
