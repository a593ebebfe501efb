package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/repository"
)

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Environment: config.Test,
		StoreDriver: config.StoreSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "test.db"),
	}

	store, err := OpenStore(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Ping(ctx))

	id, err := store.CreateRecipe(ctx, &model.Recipe{
		UserID:      "user-1",
		Title:       "Soup",
		Description: "A warm soup for winter.",
		CuisineType: "American",
		Servings:    4,
		Ingredients: model.Ingredients{{Name: "Water", Quantity: 2, Unit: "cups"}},
		Steps:       model.Steps{{StepNumber: 1, Instruction: "Boil the water."}},
	})
	require.NoError(t, err)

	got, err := store.GetRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Soup", got.Title)
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(context.Background(), &config.Config{StoreDriver: config.StoreMemory}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.IsType(t, &repository.MemoryStore{}, store)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{StoreDriver: "cassandra"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestOpenStore_ClosesConnectionWhenMigrationsFail(t *testing.T) {
	var opened *gorm.DB
	runMigrations = func(_ context.Context, db *gorm.DB, _ *zap.Logger) error {
		opened = db
		return errors.New("migration 00002 failed")
	}
	t.Cleanup(func() { runMigrations = RunMigrations })

	cfg := &config.Config{
		Environment: config.Test,
		StoreDriver: config.StoreSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "test.db"),
	}
	_, err := OpenStore(context.Background(), cfg, zaptest.NewLogger(t))
	require.Error(t, err)

	require.NotNil(t, opened)
	sqlDB, err := opened.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping(), "connection should be closed")
}
