package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipe-share/backend/internal/model"
)

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	recipes  map[string]*model.Recipe
	order    []string
	profiles map[string]*model.Profile
	users    map[string]*model.User
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes:  make(map[string]*model.Recipe),
		profiles: make(map[string]*model.Profile),
		users:    make(map[string]*model.User),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func copyRecipe(r *model.Recipe) *model.Recipe {
	c := *r
	c.Ingredients = append(model.Ingredients(nil), r.Ingredients...)
	c.Steps = append(model.Steps(nil), r.Steps...)
	c.Author = nil
	return &c
}

func (s *MemoryStore) CreateRecipe(_ context.Context, r *model.Recipe) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.New().String()
	r.CreatedAt = s.now()
	s.recipes[r.ID] = copyRecipe(r)
	s.order = append(s.order, r.ID)
	return r.ID, nil
}

func (s *MemoryStore) GetRecipe(_ context.Context, id string) (*model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecipe(r), nil
}

func (s *MemoryStore) ListRecipes(_ context.Context, limit int) ([]*model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// creation order is CreatedAt order
	recipes := make([]*model.Recipe, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(recipes) == limit {
			break
		}
		recipes = append(recipes, copyRecipe(s.recipes[s.order[i]]))
	}
	return recipes, nil
}

func (s *MemoryStore) UpdateRecipe(_ context.Context, id string, upd model.RecipeUpdate) (*model.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	upd.Apply(r)
	return copyRecipe(r), nil
}

func (s *MemoryStore) GetProfile(_ context.Context, id string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *MemoryStore) CreateProfile(_ context.Context, p *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.ID]; ok {
		return nil
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	c := *p
	s.profiles[p.ID] = &c
	return nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = s.now()
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
