package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
)

// MongoDB represents a MongoDB connection
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// NewMongoDB connects to MongoDB and selects the configured database
func NewMongoDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*MongoDB, error) {
	logger := log.Named("mongodb")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	return &MongoDB{
		client: client,
		db:     client.Database(cfg.MongoDatabase),
		log:    logger,
	}, nil
}

// Database returns the selected database
func (m *MongoDB) Database() *mongo.Database {
	return m.db
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m.log.Info("closing MongoDB connection")
	return m.client.Disconnect(ctx)
}
