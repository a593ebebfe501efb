package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/cache"
	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/types"
)

var (
	// ErrUnauthenticated is returned when a mutation has no signed-in actor.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden is returned when the actor does not own the recipe.
	ErrForbidden = errors.New("not the recipe owner")
	// ErrImageUpload is returned when the attached image could not be stored.
	ErrImageUpload = errors.New("image upload failed")
)

// ValidationError carries the per-field messages of a rejected submission
type ValidationError struct {
	Fields model.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("recipe validation failed on %d field(s)", len(e.Fields))
}

// MutationService runs the recipe create and update workflows
type MutationService struct {
	recipes IRecipeService
	images  ImageStore
	pages   cache.PageCache
	log     *zap.Logger
	now     func() time.Time
}

var _ IMutationService = (*MutationService)(nil)

// NewMutationService creates a new MutationService. images may be nil when
// object storage is not configured; submissions with an image then fail with
// ErrImageUpload.
func NewMutationService(recipes IRecipeService, images ImageStore, pages cache.PageCache, log *zap.Logger) *MutationService {
	if pages == nil {
		pages = cache.Noop{}
	}
	return &MutationService{
		recipes: recipes,
		images:  images,
		pages:   pages,
		log:     log.Named("mutation"),
		now:     time.Now,
	}
}

// CreateRecipe validates form, stores the optional image and persists a new recipe
func (s *MutationService) CreateRecipe(ctx context.Context, actorID string, form model.RecipeForm, image *types.ImageUpload) (*model.Recipe, error) {
	input, err := s.prepare(actorID, form, image)
	if err != nil {
		return nil, err
	}

	imageURL := model.PlaceholderImageURL
	if hasImage(image) {
		if imageURL, err = s.upload(ctx, actorID, image); err != nil {
			return nil, err
		}
	}

	recipe := &model.Recipe{
		UserID:       input.UserID,
		Title:        input.Title,
		Description:  input.Description,
		CuisineType:  input.CuisineType,
		Servings:     input.Servings,
		MainImageURL: imageURL,
		ImageHint:    model.ImageHint(input.Title),
		Ingredients:  model.Ingredients(input.Ingredients),
		Steps:        model.NumberSteps(input.Steps),
	}

	id, err := s.recipes.CreateRecipe(ctx, recipe)
	if err != nil {
		s.log.Error("failed to save recipe", zap.String("user_id", actorID), zap.Error(err))
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	s.invalidate(ctx, id)

	saved, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		s.log.Warn("created recipe not readable", zap.String("id", id), zap.Error(err))
		recipe.ID = id
		return recipe, nil
	}
	return saved, nil
}

// UpdateRecipe validates form and replaces the editable fields of recipe id.
// Only the owner may update.
func (s *MutationService) UpdateRecipe(ctx context.Context, actorID, id string, form model.RecipeForm, image *types.ImageUpload) (*model.Recipe, error) {
	input, err := s.prepare(actorID, form, image)
	if err != nil {
		return nil, err
	}

	existing, err := s.recipes.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != actorID {
		return nil, ErrForbidden
	}

	imageURL := strings.TrimSpace(form.ExistingMainImageURL)
	if imageURL == "" {
		imageURL = existing.MainImageURL
	}
	if imageURL == "" {
		imageURL = model.PlaceholderImageURL
	}
	if hasImage(image) {
		if imageURL, err = s.upload(ctx, actorID, image); err != nil {
			return nil, err
		}
	}

	hint := model.ImageHint(input.Title)
	updated, err := s.recipes.UpdateRecipe(ctx, id, model.RecipeUpdate{
		Title:        &input.Title,
		Description:  &input.Description,
		CuisineType:  &input.CuisineType,
		Servings:     &input.Servings,
		MainImageURL: &imageURL,
		ImageHint:    &hint,
		Ingredients:  model.Ingredients(input.Ingredients),
		Steps:        model.NumberSteps(input.Steps),
	})
	if err != nil {
		s.log.Error("failed to update recipe", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	s.invalidate(ctx, id)
	return updated, nil
}

// prepare runs the checks shared by create and update
func (s *MutationService) prepare(actorID string, form model.RecipeForm, image *types.ImageUpload) (*model.RecipeInput, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	if form.UserID == "" {
		form.UserID = actorID
	}
	if form.UserID != actorID {
		return nil, ErrForbidden
	}

	input, fields := model.ValidateRecipeForm(form)
	if hasImage(image) && !strings.HasPrefix(image.ContentType, "image/") {
		if fields == nil {
			fields = model.FieldErrors{}
		}
		fields.Add("main_image", "Main image must be an image file.")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return input, nil
}

func (s *MutationService) upload(ctx context.Context, userID string, image *types.ImageUpload) (string, error) {
	if s.images == nil {
		s.log.Error("image attached but object storage is not configured")
		return "", ErrImageUpload
	}
	key := ImageKey(userID, image.Filename, s.now())
	url, err := s.images.Upload(ctx, key, image.ContentType, image.Data)
	if err != nil {
		s.log.Error("image upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}
	return url, nil
}

func (s *MutationService) invalidate(ctx context.Context, id string) {
	if err := s.pages.Invalidate(ctx, cache.ListPath, cache.RecipePath(id)); err != nil {
		s.log.Warn("page cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}

func hasImage(image *types.ImageUpload) bool {
	return image != nil && len(image.Data) > 0
}
