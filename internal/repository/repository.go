// Package repository holds the storage backends for recipes, profiles and users.
package repository

import (
	"context"
	"errors"

	"github.com/pageza/recipe-share/backend/internal/model"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("record already exists")
	// ErrUnavailable is returned when the store is unreachable or its schema is not provisioned.
	ErrUnavailable = errors.New("store unavailable")
)

// RecipeRepository persists recipes
type RecipeRepository interface {
	// CreateRecipe stores r and assigns its ID and CreatedAt.
	CreateRecipe(ctx context.Context, r *model.Recipe) (string, error)
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	// ListRecipes returns up to limit recipes, newest first.
	ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, upd model.RecipeUpdate) (*model.Recipe, error)
}

// ProfileRepository persists user profiles
type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	// CreateProfile stores p unless a profile with the same ID exists.
	CreateProfile(ctx context.Context, p *model.Profile) error
}

// UserRepository persists local email/password identities
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Store is a complete storage backend
type Store interface {
	RecipeRepository
	ProfileRepository
	UserRepository
	Ping(ctx context.Context) error
	Close() error
}
