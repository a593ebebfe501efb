package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-share/backend/internal/model"
)

// missingID is a well-formed id that no store will have assigned
const missingID = "000000000000000000000000"

func sampleRecipe(title string) *model.Recipe {
	return &model.Recipe{
		UserID:       "user-1",
		Title:        title,
		Description:  "A warm soup for winter.",
		CuisineType:  "American",
		Servings:     4,
		MainImageURL: model.PlaceholderImageURL,
		ImageHint:    model.ImageHint(title),
		Ingredients:  model.Ingredients{{Name: "Water", Quantity: 2, Unit: "cups"}},
		Steps:        model.Steps{{StepNumber: 1, Instruction: "Boil the water."}},
	}
}

// testStoreContract runs the behaviour every Store implementation must share.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("list on empty store", func(t *testing.T) {
		s := newStore(t)
		recipes, err := s.ListRecipes(ctx, model.DefaultListLimit)
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	t.Run("create then get", func(t *testing.T) {
		s := newStore(t)
		in := sampleRecipe("Soup")
		before := time.Now().Add(-time.Second)

		id, err := s.CreateRecipe(ctx, in)
		require.NoError(t, err)
		require.NotEmpty(t, id)
		assert.Equal(t, id, in.ID)

		got, err := s.GetRecipe(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, in.UserID, got.UserID)
		assert.Equal(t, in.Title, got.Title)
		assert.Equal(t, in.Description, got.Description)
		assert.Equal(t, in.CuisineType, got.CuisineType)
		assert.Equal(t, in.Servings, got.Servings)
		assert.Equal(t, in.MainImageURL, got.MainImageURL)
		assert.Equal(t, in.ImageHint, got.ImageHint)
		assert.Equal(t, in.Ingredients, got.Ingredients)
		assert.Equal(t, in.Steps, got.Steps)
		assert.True(t, got.CreatedAt.After(before))
		assert.WithinDuration(t, in.CreatedAt, got.CreatedAt, time.Millisecond)
		assert.Nil(t, got.Author)
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetRecipe(ctx, missingID)
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = s.GetRecipe(ctx, "not-an-id")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		s := newStore(t)
		for _, title := range []string{"First", "Second", "Third"} {
			_, err := s.CreateRecipe(ctx, sampleRecipe(title))
			require.NoError(t, err)
			time.Sleep(5 * time.Millisecond)
		}

		recipes, err := s.ListRecipes(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, "Third", recipes[0].Title)
		assert.Equal(t, "Second", recipes[1].Title)
	})

	t.Run("partial update", func(t *testing.T) {
		s := newStore(t)
		in := sampleRecipe("Soup")
		id, err := s.CreateRecipe(ctx, in)
		require.NoError(t, err)

		title := "Tomato Soup"
		got, err := s.UpdateRecipe(ctx, id, model.RecipeUpdate{
			Title: &title,
			Steps: model.Steps{{StepNumber: 1, Instruction: "Chop tomatoes."}, {StepNumber: 2, Instruction: "Simmer gently."}},
		})
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Tomato Soup", got.Title)
		assert.Equal(t, in.Description, got.Description)
		assert.Equal(t, in.UserID, got.UserID)
		assert.Len(t, got.Steps, 2)
		assert.WithinDuration(t, in.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := newStore(t)
		title := "Nothing"
		_, err := s.UpdateRecipe(ctx, missingID, model.RecipeUpdate{Title: &title})
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("profiles", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetProfile(ctx, "user-1")
		assert.True(t, errors.Is(err, ErrNotFound))

		require.NoError(t, s.CreateProfile(ctx, &model.Profile{ID: "user-1", Username: "ChefAnna"}))
		require.NoError(t, s.CreateProfile(ctx, &model.Profile{ID: "user-1", Username: "Someone Else"}))

		p, err := s.GetProfile(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "ChefAnna", p.Username)
	})

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		u := &model.User{Email: "anna@example.com", PasswordHash: "hash"}
		require.NoError(t, s.CreateUser(ctx, u))
		assert.NotEmpty(t, u.ID)

		err := s.CreateUser(ctx, &model.User{Email: "anna@example.com", PasswordHash: "other"})
		assert.True(t, errors.Is(err, ErrConflict), "got %v", err)

		got, err := s.GetUserByEmail(ctx, "anna@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.CreateRecipe(ctx, sampleRecipe("Soup"))
	require.NoError(t, err)

	got, err := s.GetRecipe(ctx, id)
	require.NoError(t, err)
	got.Title = "Mutated"
	got.Ingredients[0].Name = "Mutated"

	again, err := s.GetRecipe(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Soup", again.Title)
	assert.Equal(t, "Water", again.Ingredients[0].Name)
}
