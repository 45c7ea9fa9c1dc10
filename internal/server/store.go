package server

import (
	"context"
	"fmt"

	"habit-tracker/backend/internal/config"
	"habit-tracker/backend/internal/database"
	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/repositories"
)

// OpenStore builds the configured store, migrating and seeding it as
// configured. pool is nil for the memory driver.
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store repositories.Store, pool *database.DatabasePool, err error) {
	if cfg.Database.Driver == config.DriverMemory {
		store = repositories.NewMemoryStore()
	} else {
		pool, err = database.NewDatabasePool(database.NewPoolConfig(cfg, log))
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Migrate(); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store = repositories.NewGormStore(pool.DB)
	}

	if cfg.Database.Seed {
		if err := store.Seed(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("seed store: %w", err)
		}
	}

	log.Infof("store ready: driver=%s seed=%t", cfg.Database.Driver, cfg.Database.Seed)
	return store, pool, nil
}
