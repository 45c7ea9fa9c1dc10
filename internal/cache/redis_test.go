package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}

	if config.PoolSize != 10 {
		t.Errorf("Expected PoolSize to be 10, got %d", config.PoolSize)
	}

	if config.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries to be 3, got %d", config.MaxRetries)
	}

	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}

	if config.KeyPrefix != "habit:" {
		t.Errorf("Expected KeyPrefix to be habit:, got %s", config.KeyPrefix)
	}
}

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	config := DefaultCacheConfig()
	config.Addr = mr.Addr()
	config.MaxRetries = 0

	cache := NewRedisCache(config)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestNewRedisCache_WithNilConfig(t *testing.T) {
	cache := NewRedisCache(nil)
	defer cache.Close()

	if cache.client == nil {
		t.Error("Expected Redis client to be initialized")
	}

	if cache.prefix != "habit:" {
		t.Errorf("Expected default prefix, got %q", cache.prefix)
	}
}

type statsPayload struct {
	CurrentStreak int `json:"currentStreak"`
	BestStreak    int `json:"bestStreak"`
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestRedis(t)

	original := statsPayload{CurrentStreak: 4, BestStreak: 9}

	if err := cache.Set("stats:distinct", original, time.Minute); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	var retrieved statsPayload
	if err := cache.Get("stats:distinct", &retrieved); err != nil {
		t.Fatalf("Failed to get from cache: %v", err)
	}

	if retrieved != original {
		t.Errorf("Expected %+v, got %+v", original, retrieved)
	}

	if !mr.Exists("habit:stats:distinct") {
		t.Error("Expected value to be stored under the prefixed key")
	}

	if ttl := mr.TTL("habit:stats:distinct"); ttl != time.Minute {
		t.Errorf("Expected TTL of 1m, got %v", ttl)
	}
}

func TestRedisCache_Get_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	var result string
	err := cache.Get("nonexistent", &result)

	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_Set_UnmarshalableValue(t *testing.T) {
	cache, _ := setupTestRedis(t)

	ch := make(chan int)
	if err := cache.Set("test:key", ch, time.Minute); err == nil {
		t.Error("Expected error when setting unmarshalable data")
	}
}

func TestRedisCache_Get_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)

	mr.Set("habit:test:invalid", "invalid-json")

	var result map[string]interface{}
	if err := cache.Get("test:invalid", &result); err == nil {
		t.Error("Expected error when getting invalid JSON")
	}
}

func TestRedisCache_Delete(t *testing.T) {
	cache, _ := setupTestRedis(t)

	if err := cache.Set("test:delete", "test-data", time.Minute); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	if err := cache.Delete("test:delete"); err != nil {
		t.Fatalf("Failed to delete from cache: %v", err)
	}

	var retrieved string
	if err := cache.Get("test:delete", &retrieved); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestRedisCache_DeletePattern(t *testing.T) {
	cache, mr := setupTestRedis(t)

	keys := []string{"stats:distinct", "stats:consecutive", "tasks:active"}
	for _, key := range keys {
		if err := cache.Set(key, "data", time.Minute); err != nil {
			t.Fatalf("Failed to set cache key %s: %v", key, err)
		}
	}
	mr.Set("other-app:stats:distinct", "foreign")

	if err := cache.DeletePattern("stats:*"); err != nil {
		t.Fatalf("Failed to delete pattern: %v", err)
	}

	var result string
	for _, key := range []string{"stats:distinct", "stats:consecutive"} {
		if err := cache.Get(key, &result); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Expected key %s to be deleted, but got: %v", key, err)
		}
	}

	if err := cache.Get("tasks:active", &result); err != nil {
		t.Errorf("Expected key tasks:active to still exist, got: %v", err)
	}

	if !mr.Exists("other-app:stats:distinct") {
		t.Error("Expected keys outside the prefix to be untouched")
	}
}

func TestRedisCache_Exists(t *testing.T) {
	cache, _ := setupTestRedis(t)

	exists, err := cache.Exists("test:exists")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if exists {
		t.Error("Expected key to not exist")
	}

	if err := cache.Set("test:exists", "data", time.Minute); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	exists, err = cache.Exists("test:exists")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if !exists {
		t.Error("Expected key to exist")
	}
}

func TestRedisCache_Health(t *testing.T) {
	cache, mr := setupTestRedis(t)

	if err := cache.Health(); err != nil {
		t.Errorf("Expected healthy cache, got error: %v", err)
	}

	mr.Close()

	err := cache.Health()
	if !errors.Is(err, ErrCacheDown) {
		t.Errorf("Expected ErrCacheDown after closing Redis, got %v", err)
	}
}

func TestRedisCache_Stats(t *testing.T) {
	cache, _ := setupTestRedis(t)

	stats := cache.Stats()

	if stats["prefix"] != "habit:" {
		t.Errorf("Expected prefix in stats, got %v", stats["prefix"])
	}
}

func TestRedisCache_Close(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewRedisCache(&CacheConfig{Addr: mr.Addr()})

	if err := cache.Close(); err != nil {
		t.Errorf("Failed to close cache: %v", err)
	}

	if err := cache.Set("test", "data", time.Minute); err == nil {
		t.Error("Expected error when using cache after close")
	}
}
