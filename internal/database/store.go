package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/repository"
)

// runMigrations is swapped in tests
var runMigrations = RunMigrations

// OpenStore connects the configured storage backend and prepares its schema.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres, config.StoreSQLite:
		db, err := Open(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(ctx, db, log); err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
		return repository.NewGormStore(db, log), nil

	case config.StoreMongo:
		mdb, err := NewMongoDB(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		store := repository.NewMongoStore(mdb.Database(), log)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = mdb.Disconnect()
			return nil, err
		}
		return store, nil

	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return repository.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
