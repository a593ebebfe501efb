package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/internal/model"
)

const (
	recipesCollection  = "recipes"
	profilesCollection = "profiles"
	usersCollection    = "users"
)

// recipeDocument is the stored form of a recipe
type recipeDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	CuisineType  string             `bson:"cuisine_type"`
	Servings     int                `bson:"servings"`
	MainImageURL string             `bson:"main_image_url"`
	ImageHint    string             `bson:"data_ai_hint"`
	Ingredients  []model.Ingredient `bson:"ingredients"`
	Steps        []model.Step       `bson:"steps"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *recipeDocument) toModel() *model.Recipe {
	return &model.Recipe{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		Title:        d.Title,
		Description:  d.Description,
		CuisineType:  d.CuisineType,
		Servings:     d.Servings,
		MainImageURL: d.MainImageURL,
		ImageHint:    d.ImageHint,
		Ingredients:  model.Ingredients(d.Ingredients),
		Steps:        model.Steps(d.Steps),
		CreatedAt:    d.CreatedAt,
	}
}

// MongoStore is a Store backed by MongoDB, one document per recipe, profile and user.
type MongoStore struct {
	db  *mongo.Database
	log *zap.Logger
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates a new MongoStore
func NewMongoStore(db *mongo.Database, log *zap.Logger) *MongoStore {
	return &MongoStore{db: db, log: log.Named("mongo-store")}
}

// EnsureIndexes creates the indexes the store relies on
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(recipesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create recipes index: %w", translateMongo(err))
	}

	_, err = s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", translateMongo(err))
	}
	return nil
}

func (s *MongoStore) CreateRecipe(ctx context.Context, r *model.Recipe) (string, error) {
	doc := recipeDocument{
		ID:           primitive.NewObjectID(),
		UserID:       r.UserID,
		Title:        r.Title,
		Description:  r.Description,
		CuisineType:  r.CuisineType,
		Servings:     r.Servings,
		MainImageURL: r.MainImageURL,
		ImageHint:    r.ImageHint,
		Ingredients:  r.Ingredients,
		Steps:        r.Steps,
		// BSON dates carry millisecond precision
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := s.db.Collection(recipesCollection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create recipe: %w", translateMongo(err))
	}

	r.ID = doc.ID.Hex()
	r.CreatedAt = doc.CreatedAt
	s.log.Debug("recipe created", zap.String("id", r.ID))
	return r.ID, nil
}

func (s *MongoStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc recipeDocument
	if err := s.db.Collection(recipesCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongo(err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) ListRecipes(ctx context.Context, limit int) ([]*model.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(recipesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipes: %w", translateMongo(err))
	}
	defer cursor.Close(ctx)

	var docs []recipeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", translateMongo(err))
	}

	recipes := make([]*model.Recipe, 0, len(docs))
	for i := range docs {
		recipes = append(recipes, docs[i].toModel())
	}
	return recipes, nil
}

func (s *MongoStore) UpdateRecipe(ctx context.Context, id string, upd model.RecipeUpdate) (*model.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	for col, v := range upd.Columns() {
		switch val := v.(type) {
		case model.Ingredients:
			set[col] = []model.Ingredient(val)
		case model.Steps:
			set[col] = []model.Step(val)
		default:
			set[col] = val
		}
	}
	if len(set) == 0 {
		return s.GetRecipe(ctx, id)
	}

	res, err := s.db.Collection(recipesCollection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", translateMongo(err))
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.GetRecipe(ctx, id)
}

func (s *MongoStore) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.db.Collection(profilesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&profile); err != nil {
		return nil, translateMongo(err)
	}
	return &profile, nil
}

func (s *MongoStore) CreateProfile(ctx context.Context, p *model.Profile) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	onInsert := bson.M{
		"username":   p.Username,
		"created_at": p.CreatedAt,
	}
	if p.AvatarURL != "" {
		onInsert["avatar_url"] = p.AvatarURL
	}

	_, err := s.db.Collection(profilesCollection).UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$setOnInsert": onInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", translateMongo(err))
	}
	return nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := s.db.Collection(usersCollection).InsertOne(ctx, u); err != nil {
		return translateMongo(err)
	}
	return nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translateMongo(err)
	}
	return &user, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.db.Client().Disconnect(ctx)
}

// translateMongo maps driver errors onto the package sentinels.
func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, mongo.ErrClientDisconnected), mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
