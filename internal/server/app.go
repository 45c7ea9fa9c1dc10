// Package server wires configuration, storage, caching and HTTP into a
// runnable application.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"habit-tracker/backend/internal/cache"
	"habit-tracker/backend/internal/config"
	"habit-tracker/backend/internal/database"
	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/middleware"
	"habit-tracker/backend/internal/monitoring"
	"habit-tracker/backend/internal/repositories"
	"habit-tracker/backend/internal/services"
	"habit-tracker/backend/internal/stats"
	"habit-tracker/backend/internal/validation"
)

type App struct {
	cfg *config.Config
	log logger.Logger

	store   repositories.Store
	pool    *database.DatabasePool
	cache   *cache.MultiLevelCache
	warmer  *cache.CacheWarmer
	limiter *middleware.RateLimiter
	monitor *monitoring.Monitor

	Tasks    services.TaskService
	Progress services.ProgressService
	Stats    services.StatsService
	Users    services.UserService

	router *gin.Engine
}

func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if err := validation.RegisterBindings(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	mode, err := stats.ParseMode(cfg.Stats.StreakMode)
	if err != nil {
		return nil, err
	}

	store, pool, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:     cfg,
		log:     log,
		store:   store,
		pool:    pool,
		cache:   newCache(cfg, log),
		monitor: monitoring.NewMonitor(),
	}

	taskService := services.NewCachedTaskService(
		services.NewTaskService(store, log), app.cache, cfg.Cache.TasksTTL, log)
	statsService := services.NewCachedStatsService(
		services.NewStatsService(store, stats.NewCalculator(mode)), app.cache, cfg.Cache.StatsTTL, log)

	app.Tasks = taskService
	app.Stats = statsService
	app.Progress = services.NewCachedProgressService(services.NewProgressService(store, log), statsService)
	app.Users = services.NewUserService(store)

	app.warmer = cache.NewCacheWarmer(app.cache, &cache.WarmupStrategy{
		Jobs:            []cache.WarmupJob{taskService.WarmupJob(), statsService.WarmupJob()},
		WarmupInterval:  cfg.Cache.WarmInterval,
		HealthCheckFunc: func() bool { return app.cache.Health() == nil },
	}, log)

	if cfg.RateLimit.Enabled {
		app.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize)
	}

	app.registerMonitoring()
	app.router = app.setupRouter()

	return app, nil
}

func newCache(cfg *config.Config, log logger.Logger) *cache.MultiLevelCache {
	mlConfig := &cache.MultiLevelConfig{
		L1TTL: cfg.Cache.L1TTL,
		Breaker: &cache.CircuitBreakerConfig{
			MaxFailures:      cfg.Cache.BreakerMaxFailures,
			Timeout:          cfg.Cache.BreakerTimeout,
			HalfOpenMaxCalls: cfg.Cache.BreakerHalfOpenProbes,
		},
	}

	if !cfg.Redis.Enabled {
		return cache.NewMultiLevelCacheWithConfig(nil, mlConfig)
	}

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		KeyPrefix:    "habit:",
	})
	if err := redisCache.Health(); err != nil {
		log.Warnf("redis unavailable at startup, serving from memory until it recovers: %v", err)
	}
	return cache.NewMultiLevelCacheWithConfig(redisCache, mlConfig)
}

func (a *App) registerMonitoring() {
	if a.pool != nil {
		a.monitor.RegisterHealthCheck("database", a.pool.HealthContext)
		a.monitor.RegisterStats("database", func() interface{} { return a.pool.Stats() })
	}
	if a.cfg.Redis.Enabled {
		a.monitor.RegisterHealthCheck("cache", func(ctx context.Context) error {
			return a.cache.Health()
		})
	}
	a.monitor.RegisterStats("cache", func() interface{} { return a.cache.Stats() })
	a.monitor.RegisterStats("cache_warmer", func() interface{} { return a.warmer.GetStats() })
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.warmer.Start(runCtx)
	defer a.warmer.Stop()
	a.cache.StartCleanup(runCtx, a.cfg.Cache.CleanupInterval)

	if a.limiter != nil {
		a.limiter.StartCleanup(runCtx, a.cfg.RateLimit.CleanupInterval)
	}

	srv := &http.Server{
		Addr:         a.cfg.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.log.Info("HTTP server shut down gracefully")
	return nil
}

func (a *App) Close() error {
	return errors.Join(a.cache.Close(), a.store.Close())
}
