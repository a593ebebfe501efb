package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipe-share/backend/internal/model"
)

func openSQLite(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// every pooled connection to :memory: would get its own database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if migrate {
		require.NoError(t, db.AutoMigrate(&model.Recipe{}, &model.Profile{}, &model.User{}))
	}
	return db
}

func TestGormStore(t *testing.T) {
	testStoreContract(t, func(t *testing.T) Store {
		return NewGormStore(openSQLite(t, true), zap.NewNop())
	})
}

func TestGormStore_NotProvisioned(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(openSQLite(t, false), zap.NewNop())

	_, err := s.ListRecipes(ctx, 20)
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)

	_, err = s.GetRecipe(ctx, "some-id")
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
}

func TestGormStore_Ping(t *testing.T) {
	s := NewGormStore(openSQLite(t, true), zap.NewNop())
	require.NoError(t, s.Ping(context.Background()))
}
