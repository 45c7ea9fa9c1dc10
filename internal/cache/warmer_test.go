package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheWarmerWarmCache(t *testing.T) {
	c := NewMultiLevelCache(nil)
	warmer := NewCacheWarmer(c, &WarmupStrategy{BatchSize: 1, ConcurrentJobs: 2}, nil)

	warmer.AddWarmupJob(WarmupJob{
		Key: "stats:distinct",
		TTL: time.Minute,
		Load: func(ctx context.Context) (interface{}, error) {
			return cachedStats{BestStreak: 7}, nil
		},
	})
	warmer.AddWarmupJob(WarmupJob{
		Key: "tasks:active",
		TTL: time.Minute,
		Load: func(ctx context.Context) (interface{}, error) {
			return nil, errors.New("store unavailable")
		},
	})

	warmed := warmer.WarmCache(context.Background())
	assert.Equal(t, 1, warmed)

	var got cachedStats
	require.NoError(t, c.Get("stats:distinct", &got))
	assert.Equal(t, 7, got.BestStreak)

	var tasks []string
	assert.ErrorIs(t, c.Get("tasks:active", &tasks), ErrCacheMiss)

	stats := warmer.GetStats()
	assert.Equal(t, int64(1), stats["runs"])
	assert.Equal(t, int64(1), stats["failures"])
	assert.Equal(t, 2, stats["total_jobs"])
}

func TestCacheWarmerStartStop(t *testing.T) {
	c := NewMultiLevelCache(nil)
	var loads int32

	warmer := NewCacheWarmer(c, &WarmupStrategy{
		WarmupInterval: 10 * time.Millisecond,
		Jobs: []WarmupJob{{
			Key: "stats:distinct",
			TTL: time.Minute,
			Load: func(ctx context.Context) (interface{}, error) {
				atomic.AddInt32(&loads, 1)
				return 1, nil
			},
		}},
	}, nil)

	warmer.Start(context.Background())
	warmer.Start(context.Background())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&loads) >= 3
	}, time.Second, 5*time.Millisecond)

	warmer.Stop()
	warmer.Stop()

	after := atomic.LoadInt32(&loads)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&loads), "no loads after Stop")
	assert.Equal(t, false, warmer.GetStats()["running"])
}

func TestCacheWarmerSkipsWhenUnhealthy(t *testing.T) {
	c := NewMultiLevelCache(nil)
	var loads int32

	warmer := NewCacheWarmer(c, &WarmupStrategy{
		WarmupInterval:  5 * time.Millisecond,
		HealthCheckFunc: func() bool { return false },
		Jobs: []WarmupJob{{
			Key: "k",
			Load: func(ctx context.Context) (interface{}, error) {
				atomic.AddInt32(&loads, 1)
				return 1, nil
			},
		}},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	warmer.Start(ctx)
	time.Sleep(40 * time.Millisecond)
	cancel()
	warmer.Stop()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads), "only the initial warm runs")
}

func TestCacheWarmerFillOwnsTheWrite(t *testing.T) {
	c := NewMultiLevelCache(nil)
	var filled atomic.Int32
	warmer := NewCacheWarmer(c, &WarmupStrategy{Jobs: []WarmupJob{
		{
			Key: "stats:distinct",
			TTL: time.Minute,
			Load: func(ctx context.Context) (interface{}, error) {
				t.Error("Load should not run when Fill is set")
				return nil, nil
			},
			Fill: func(ctx context.Context) error {
				filled.Add(1)
				return nil
			},
		},
		{Key: "tasks:active"},
	}}, nil)

	assert.Equal(t, 1, warmer.WarmCache(context.Background()))
	assert.Equal(t, int32(1), filled.Load())

	exists, err := c.Exists("stats:distinct")
	require.NoError(t, err)
	assert.False(t, exists, "warmer must not store a value for a Fill job")
}
