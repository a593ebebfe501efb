package service

import (
	"context"

	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/types"
)

// Completer sends a chat conversation to a language model and returns the reply text
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// ImageStore stores uploaded images and returns their durable URL
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// IRecipeService defines the read/write gateway used by the mutation service
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) (string, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, upd model.RecipeUpdate) (*model.Recipe, error)
}

// IMutationService defines the recipe create/update workflow
type IMutationService interface {
	CreateRecipe(ctx context.Context, actorID string, form model.RecipeForm, image *types.ImageUpload) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, actorID, id string, form model.RecipeForm, image *types.ImageUpload) (*model.Recipe, error)
}

// IScalingService defines ingredient scaling
type IScalingService interface {
	Scale(ctx context.Context, req types.ScaleRequest) ([]model.Ingredient, error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, email, password, username string) (*types.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*types.AuthResponse, error)
	FederatedSignIn(ctx context.Context, provider, idToken string) (*types.AuthResponse, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	EnsureProfile(ctx context.Context, userID, username, avatarURL string) (*model.Profile, error)
}
