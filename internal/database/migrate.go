package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-share/backend/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the SQL schema up to date. SQLite uses gorm
// auto-migration; postgres applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Info("using gorm auto-migration for sqlite")
		return db.WithContext(ctx).AutoMigrate(
			&model.Recipe{},
			&model.Profile{},
			&model.User{},
		)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err == nil {
		log.Info("database schema up to date", zap.Int64("version", version))
	}
	return nil
}
