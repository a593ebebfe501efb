// Package database opens the connections behind the configured store.
package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipe-share/backend/config"
)

// Open creates a gorm connection for the postgres or sqlite driver
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case config.StorePostgres:
		// Log connection target (without password)
		log.Info("connecting to postgres",
			zap.String("host", cfg.DBHost),
			zap.String("port", cfg.DBPort),
			zap.String("user", cfg.DBUser),
			zap.String("database", cfg.DBName),
		)
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.StoreSQLite:
		log.Info("opening sqlite database", zap.String("path", cfg.SQLitePath))
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("driver %q is not a SQL store", cfg.StoreDriver)
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if !cfg.Environment.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}

	// Set connection pool settings
	if cfg.StoreDriver == config.StoreSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Info("connected to database", zap.String("driver", cfg.StoreDriver))
	return db, nil
}
