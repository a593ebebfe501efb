package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/repository"
	"github.com/pageza/recipe-share/backend/internal/service"
)

// brokenProfiles fails every lookup
type brokenProfiles struct{ repository.ProfileRepository }

func (brokenProfiles) GetProfile(context.Context, string) (*model.Profile, error) {
	return nil, errors.New("profiles offline")
}

// downRecipes reports the store as unreachable
type downRecipes struct{ repository.RecipeRepository }

func (downRecipes) GetRecipe(context.Context, string) (*model.Recipe, error) {
	return nil, repository.ErrUnavailable
}

func (downRecipes) ListRecipes(context.Context, int) ([]*model.Recipe, error) {
	return nil, repository.ErrUnavailable
}

func sampleRecipe(userID string) *model.Recipe {
	return &model.Recipe{
		UserID:       userID,
		Title:        "Tomato Soup",
		Description:  "A bright tomato soup.",
		CuisineType:  "Italian",
		Servings:     4,
		MainImageURL: model.PlaceholderImageURL,
		ImageHint:    "tomato soup",
		Ingredients:  model.Ingredients{{Name: "Tomato", Quantity: 6, Unit: "whole"}},
		Steps:        model.Steps{{StepNumber: 1, Instruction: "Simmer the tomatoes."}},
	}
}

func TestRecipeService_GetRecipe_WithAuthor(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.CreateProfile(ctx, &model.Profile{ID: "u1", Username: "ChefAnna"}))
	svc := service.NewRecipeService(store, store, zaptest.NewLogger(t))

	id, err := svc.CreateRecipe(ctx, sampleRecipe("u1"))
	require.NoError(t, err)

	got, err := svc.GetRecipe(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "ChefAnna", got.Author.Username)
}

func TestRecipeService_GetRecipe_AnonymousAuthor(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := service.NewRecipeService(store, store, zaptest.NewLogger(t))

	id, err := svc.CreateRecipe(ctx, sampleRecipe("ghost"))
	require.NoError(t, err)

	got, err := svc.GetRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.AnonymousChef, got.Author.Username)
	assert.Equal(t, "ghost", got.Author.ID)
}

func TestRecipeService_GetRecipe_UnknownAuthor(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := service.NewRecipeService(store, brokenProfiles{store}, zaptest.NewLogger(t))

	id, err := svc.CreateRecipe(ctx, sampleRecipe("u1"))
	require.NoError(t, err)

	got, err := svc.GetRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.UnknownChef, got.Author.Username)
}

func TestRecipeService_GetRecipe_NotFound(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := service.NewRecipeService(store, store, zaptest.NewLogger(t))

	_, err := svc.GetRecipe(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecipeService_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := service.NewRecipeService(downRecipes{store}, store, zaptest.NewLogger(t))

	list, err := svc.ListRecipes(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = svc.GetRecipe(ctx, "any")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecipeService_ListRecipes(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.CreateProfile(ctx, &model.Profile{ID: "u1", Username: "ChefAnna"}))
	svc := service.NewRecipeService(store, store, zaptest.NewLogger(t))

	for i := 0; i < model.DefaultListLimit+3; i++ {
		_, err := svc.CreateRecipe(ctx, sampleRecipe("u1"))
		require.NoError(t, err)
	}
	last := sampleRecipe("u2")
	last.Title = "Newest Dish"
	_, err := svc.CreateRecipe(ctx, last)
	require.NoError(t, err)

	list, err := svc.ListRecipes(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, model.DefaultListLimit)
	assert.Equal(t, "Newest Dish", list[0].Title)
	assert.Equal(t, model.AnonymousChef, list[0].Author.Username)
	assert.Equal(t, "ChefAnna", list[1].Author.Username)

	list, err = svc.ListRecipes(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
