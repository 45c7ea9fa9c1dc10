package services

import (
	"context"
	"errors"
	"time"

	"habit-tracker/backend/internal/cache"
	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/models"
	"habit-tracker/backend/internal/stats"
)

const statsKeyPattern = "stats:*"

func statsKey(mode stats.Mode) string {
	return "stats:" + string(mode)
}

// CachedStatsService caches computed stats per streak mode. A result loaded
// while a progress write was in flight is not stored.
type CachedStatsService struct {
	statsService *StatsServiceImpl
	cache        cache.Cache
	log          logger.Logger
	ttl          time.Duration
	guard        fillGuard
}

func NewCachedStatsService(statsService *StatsServiceImpl, cacheInstance cache.Cache, ttl time.Duration, log logger.Logger) *CachedStatsService {
	return &CachedStatsService{
		statsService: statsService,
		cache:        cacheInstance,
		log:          log,
		ttl:          ttl,
	}
}

func (s *CachedStatsService) GetStats(ctx context.Context) (models.Stats, error) {
	key := statsKey(s.statsService.Mode())

	var cached models.Stats
	err := s.cache.Get(key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warnf("stats cache read failed: %v", err)
	}

	return s.load(ctx, key)
}

func (s *CachedStatsService) load(ctx context.Context, key string) (models.Stats, error) {
	generation := s.guard.current()
	result, err := s.statsService.GetStats(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	err = s.guard.fill(generation, func() error {
		return s.cache.Set(key, result, s.ttl)
	})
	if err != nil {
		s.log.Warnf("stats cache write failed: %v", err)
	}
	return result, nil
}

// Invalidate drops cached stats for every mode.
func (s *CachedStatsService) Invalidate() {
	s.guard.invalidate(func() {
		if err := s.cache.DeletePattern(statsKeyPattern); err != nil {
			s.log.Warnf("stats cache invalidation failed: %v", err)
		}
	})
}

func (s *CachedStatsService) WarmupJob() cache.WarmupJob {
	key := statsKey(s.statsService.Mode())
	return cache.WarmupJob{
		Key: key,
		TTL: s.ttl,
		Fill: func(ctx context.Context) error {
			_, err := s.load(ctx, key)
			return err
		},
	}
}

// CachedProgressService invalidates cached stats after every progress write.
type CachedProgressService struct {
	ProgressService
	stats *CachedStatsService
}

func NewCachedProgressService(progressService ProgressService, statsService *CachedStatsService) *CachedProgressService {
	return &CachedProgressService{ProgressService: progressService, stats: statsService}
}

func (s *CachedProgressService) UpsertProgress(ctx context.Context, in models.ProgressInput) (models.DailyProgress, error) {
	record, err := s.ProgressService.UpsertProgress(ctx, in)
	if err != nil {
		return record, err
	}
	s.stats.Invalidate()
	return record, nil
}

func (s *CachedProgressService) PatchProgress(ctx context.Context, id string, update models.ProgressUpdate) (models.DailyProgress, error) {
	record, err := s.ProgressService.PatchProgress(ctx, id, update)
	if err != nil {
		return record, err
	}
	s.stats.Invalidate()
	return record, nil
}
