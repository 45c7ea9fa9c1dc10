package services

import (
	"context"
	"errors"
	"time"

	"habit-tracker/backend/internal/cache"
	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/models"
)

const activeTasksKey = "tasks:active"

// CachedTaskService caches the active task list. Every mutation drops the
// cached list, and a list loaded before that drop is never stored.
type CachedTaskService struct {
	taskService TaskService
	cache       cache.Cache
	log         logger.Logger
	ttl         time.Duration
	guard       fillGuard
}

func NewCachedTaskService(taskService TaskService, cacheInstance cache.Cache, ttl time.Duration, log logger.Logger) *CachedTaskService {
	return &CachedTaskService{
		taskService: taskService,
		cache:       cacheInstance,
		log:         log,
		ttl:         ttl,
	}
}

func (s *CachedTaskService) ListTasks(ctx context.Context) ([]models.Task, error) {
	var cachedTasks []models.Task
	err := s.cache.Get(activeTasksKey, &cachedTasks)
	if err == nil {
		return cachedTasks, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warnf("task list cache read failed: %v", err)
	}

	return s.load(ctx)
}

func (s *CachedTaskService) load(ctx context.Context) ([]models.Task, error) {
	generation := s.guard.current()
	tasks, err := s.taskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	err = s.guard.fill(generation, func() error {
		return s.cache.Set(activeTasksKey, tasks, s.ttl)
	})
	if err != nil {
		s.log.Warnf("task list cache write failed: %v", err)
	}
	return tasks, nil
}

func (s *CachedTaskService) GetTask(ctx context.Context, id string) (models.Task, error) {
	return s.taskService.GetTask(ctx, id)
}

func (s *CachedTaskService) CreateTask(ctx context.Context, in models.TaskInput) (models.Task, error) {
	task, err := s.taskService.CreateTask(ctx, in)
	if err != nil {
		return task, err
	}
	s.invalidate()
	return task, nil
}

func (s *CachedTaskService) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (models.Task, error) {
	task, err := s.taskService.UpdateTask(ctx, id, update)
	if err != nil {
		return task, err
	}
	s.invalidate()
	return task, nil
}

func (s *CachedTaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskService.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CachedTaskService) invalidate() {
	s.guard.invalidate(func() {
		if err := s.cache.Delete(activeTasksKey); err != nil {
			s.log.Warnf("task list cache invalidation failed: %v", err)
		}
	})
}

// WarmupJob refills the active task list from the store through the same
// guarded path as a cache miss.
func (s *CachedTaskService) WarmupJob() cache.WarmupJob {
	return cache.WarmupJob{
		Key: activeTasksKey,
		TTL: s.ttl,
		Fill: func(ctx context.Context) error {
			_, err := s.load(ctx)
			return err
		},
	}
}

func (s *CachedTaskService) GetCacheStats() map[string]interface{} {
	return s.cache.Stats()
}
