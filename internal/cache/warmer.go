package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"habit-tracker/backend/internal/logger"
)

// WarmupJob fills one key. Load returns the value for the warmer to store
// under Key. Fill, when set, takes precedence and stores the value itself,
// for owners that must order the write against their own invalidations.
type WarmupJob struct {
	Key  string
	TTL  time.Duration
	Load func(ctx context.Context) (interface{}, error)
	Fill func(ctx context.Context) error
}

type WarmupStrategy struct {
	Jobs            []WarmupJob
	BatchSize       int
	ConcurrentJobs  int
	WarmupInterval  time.Duration
	HealthCheckFunc func() bool
}

type CacheWarmer struct {
	cache    Cache
	strategy *WarmupStrategy
	log      logger.Logger

	mu       sync.RWMutex
	running  bool
	stopCh   chan struct{}
	done     sync.WaitGroup
	runs     int64
	failures int64
	lastRun  time.Time
}

func NewCacheWarmer(cache Cache, strategy *WarmupStrategy, log logger.Logger) *CacheWarmer {
	if strategy == nil {
		strategy = &WarmupStrategy{}
	}
	if strategy.BatchSize <= 0 {
		strategy.BatchSize = 10
	}
	if strategy.ConcurrentJobs <= 0 {
		strategy.ConcurrentJobs = 3
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &CacheWarmer{
		cache:    cache,
		strategy: strategy,
		log:      log,
	}
}

func (cw *CacheWarmer) AddWarmupJob(job WarmupJob) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.strategy.Jobs = append(cw.strategy.Jobs, job)
	cw.log.Debugf("added warmup job %s", job.Key)
}

// Start warms every key once and then again on each interval tick until
// Stop is called or ctx is cancelled.
func (cw *CacheWarmer) Start(ctx context.Context) {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = true
	cw.stopCh = make(chan struct{})
	stopCh := cw.stopCh
	cw.mu.Unlock()

	cw.log.Infof("starting cache warmer with %d jobs", cw.jobCount())

	cw.done.Add(1)
	go func() {
		defer cw.done.Done()

		cw.WarmCache(ctx)

		if cw.strategy.WarmupInterval <= 0 {
			return
		}

		ticker := time.NewTicker(cw.strategy.WarmupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if cw.shouldWarmup() {
					cw.WarmCache(ctx)
				}
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (cw *CacheWarmer) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = false
	close(cw.stopCh)
	cw.mu.Unlock()

	cw.done.Wait()
	cw.log.Info("cache warmer stopped")
}

// WarmCache runs every job once, in batches, and returns when they finish.
func (cw *CacheWarmer) WarmCache(ctx context.Context) int {
	cw.mu.RLock()
	jobs := make([]WarmupJob, len(cw.strategy.Jobs))
	copy(jobs, cw.strategy.Jobs)
	batchSize := cw.strategy.BatchSize
	concurrentJobs := cw.strategy.ConcurrentJobs
	cw.mu.RUnlock()

	if len(jobs) == 0 {
		return 0
	}

	failed := 0
	for i := 0; i < len(jobs); i += batchSize {
		end := min(i+batchSize, len(jobs))
		failed += cw.processBatch(ctx, jobs[i:end], concurrentJobs)

		if ctx.Err() != nil {
			cw.log.Warn("cache warming cancelled")
			return 0
		}
	}

	cw.mu.Lock()
	cw.runs++
	cw.failures += int64(failed)
	cw.lastRun = time.Now()
	cw.mu.Unlock()

	cw.log.Debugf("cache warming completed: %d jobs, %d failed", len(jobs), failed)
	return len(jobs) - failed
}

func (cw *CacheWarmer) processBatch(ctx context.Context, jobs []WarmupJob, concurrency int) int {
	jobCh := make(chan WarmupJob, len(jobs))
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for i := 0; i < concurrency && i < len(jobs); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if ctx.Err() != nil {
					return
				}
				if err := cw.processJob(ctx, job); err != nil {
					cw.log.Warnf("failed to warm cache key %s: %v", job.Key, err)
					mu.Lock()
					failed++
					mu.Unlock()
				}
			}
		}()
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	wg.Wait()
	return failed
}

func (cw *CacheWarmer) processJob(ctx context.Context, job WarmupJob) error {
	if job.Fill != nil {
		return job.Fill(ctx)
	}
	if job.Load == nil {
		return fmt.Errorf("warmup job %s has no loader", job.Key)
	}

	value, err := job.Load(ctx)
	if err != nil {
		return err
	}
	return cw.cache.Set(job.Key, value, job.TTL)
}

func (cw *CacheWarmer) shouldWarmup() bool {
	if cw.strategy.HealthCheckFunc != nil {
		return cw.strategy.HealthCheckFunc()
	}

	return true
}

func (cw *CacheWarmer) jobCount() int {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return len(cw.strategy.Jobs)
}

func (cw *CacheWarmer) GetStats() map[string]interface{} {
	cw.mu.RLock()
	defer cw.mu.RUnlock()

	stats := map[string]interface{}{
		"running":         cw.running,
		"interval":        cw.strategy.WarmupInterval.String(),
		"total_jobs":      len(cw.strategy.Jobs),
		"batch_size":      cw.strategy.BatchSize,
		"concurrent_jobs": cw.strategy.ConcurrentJobs,
		"runs":            cw.runs,
		"failures":        cw.failures,
	}
	if !cw.lastRun.IsZero() {
		stats["last_run"] = cw.lastRun.Format(time.RFC3339)
	}

	return stats
}
