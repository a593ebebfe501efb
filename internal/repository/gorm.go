package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipe-share/backend/internal/model"
)

// GormStore is a Store backed by a SQL database through gorm (postgres or sqlite).
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB, log *zap.Logger) *GormStore {
	return &GormStore{db: db, log: log.Named("gorm-store")}
}

func (s *GormStore) CreateRecipe(ctx context.Context, r *model.Recipe) (string, error) {
	r.ID = uuid.New().String()
	r.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return "", fmt.Errorf("failed to create recipe: %w", translateSQL(err))
	}
	s.log.Debug("recipe created", zap.String("id", r.ID))
	return r.ID, nil
}

func (s *GormStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translateSQL(err)
	}
	return &recipe, nil
}

func (s *GormStore) ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, translateSQL(err)
	}
	return recipes, nil
}

func (s *GormStore) UpdateRecipe(ctx context.Context, id string, upd model.RecipeUpdate) (*model.Recipe, error) {
	cols := upd.Columns()
	if len(cols) == 0 {
		return s.GetRecipe(ctx, id)
	}

	result := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", translateSQL(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetRecipe(ctx, id)
}

func (s *GormStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, translateSQL(err)
	}
	return &profile, nil
}

func (s *GormStore) CreateProfile(ctx context.Context, p *model.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", translateSQL(err))
	}
	return nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return translateSQL(err)
	}
	return nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateSQL(err)
	}
	return &user, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translateSQL maps driver errors onto the package sentinels.
func translateSQL(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isUnavailable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// undefined_table, invalid_catalog_name
		return pgErr.Code == "42P01" || pgErr.Code == "3D000"
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return strings.Contains(err.Error(), "no such table")
}
