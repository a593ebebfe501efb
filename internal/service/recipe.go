package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/repository"
)

// RecipeService is the persistence gateway for recipes. Reads are joined
// with the author's profile.
type RecipeService struct {
	recipes  repository.RecipeRepository
	profiles repository.ProfileRepository
	log      *zap.Logger
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService
func NewRecipeService(recipes repository.RecipeRepository, profiles repository.ProfileRepository, log *zap.Logger) *RecipeService {
	return &RecipeService{recipes: recipes, profiles: profiles, log: log.Named("recipes")}
}

// CreateRecipe stores recipe and returns its new ID
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *model.Recipe) (string, error) {
	return s.recipes.CreateRecipe(ctx, recipe)
}

// GetRecipe returns the recipe with its author. An unreachable store reads
// as a missing recipe.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.recipes.GetRecipe(ctx, id)
	if errors.Is(err, repository.ErrUnavailable) {
		s.log.Warn("recipe store unavailable", zap.String("id", id), zap.Error(err))
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.attachAuthor(ctx, recipe)
	return recipe, nil
}

// ListRecipes returns up to limit recipes newest first, DefaultListLimit when
// limit is not positive. An unreachable store reads as an empty list.
func (s *RecipeService) ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error) {
	if limit <= 0 {
		limit = model.DefaultListLimit
	}
	recipes, err := s.recipes.ListRecipes(ctx, limit)
	if errors.Is(err, repository.ErrUnavailable) {
		s.log.Warn("recipe store unavailable", zap.Error(err))
		return []*model.Recipe{}, nil
	}
	if err != nil {
		return nil, err
	}

	authors := make(map[string]*model.Profile)
	for _, r := range recipes {
		if p, ok := authors[r.UserID]; ok {
			r.Author = p
			continue
		}
		s.attachAuthor(ctx, r)
		authors[r.UserID] = r.Author
	}
	return recipes, nil
}

// UpdateRecipe applies upd and returns the updated recipe with its author
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, upd model.RecipeUpdate) (*model.Recipe, error) {
	recipe, err := s.recipes.UpdateRecipe(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.attachAuthor(ctx, recipe)
	return recipe, nil
}

func (s *RecipeService) attachAuthor(ctx context.Context, r *model.Recipe) {
	p, err := s.profiles.GetProfile(ctx, r.UserID)
	switch {
	case err == nil:
		r.Author = p
	case errors.Is(err, repository.ErrNotFound):
		r.Author = model.PlaceholderProfile(r.UserID, model.AnonymousChef)
	default:
		s.log.Warn("author lookup failed", zap.String("user_id", r.UserID), zap.Error(err))
		r.Author = model.PlaceholderProfile(r.UserID, model.UnknownChef)
	}
}
