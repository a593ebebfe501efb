package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe gateway
type MockRecipeService struct {
	mock.Mock
}

// CreateRecipe mocks the CreateRecipe method
func (m *MockRecipeService) CreateRecipe(ctx context.Context, recipe *model.Recipe) (string, error) {
	args := m.Called(ctx, recipe)
	return args.String(0), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// ListRecipes mocks the ListRecipes method
func (m *MockRecipeService) ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

// UpdateRecipe mocks the UpdateRecipe method
func (m *MockRecipeService) UpdateRecipe(ctx context.Context, id string, upd model.RecipeUpdate) (*model.Recipe, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// MockMutationService is a mock implementation of the recipe mutation workflow
type MockMutationService struct {
	mock.Mock
}

func (m *MockMutationService) CreateRecipe(ctx context.Context, actorID string, form model.RecipeForm, image *types.ImageUpload) (*model.Recipe, error) {
	args := m.Called(ctx, actorID, form, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockMutationService) UpdateRecipe(ctx context.Context, actorID, id string, form model.RecipeForm, image *types.ImageUpload) (*model.Recipe, error) {
	args := m.Called(ctx, actorID, id, form, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// MockScalingService is a mock implementation of ingredient scaling
type MockScalingService struct {
	mock.Mock
}

func (m *MockScalingService) Scale(ctx context.Context, req types.ScaleRequest) ([]model.Ingredient, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingredient), args.Error(1)
}
