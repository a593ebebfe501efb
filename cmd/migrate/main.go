package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/database"
	"github.com/pageza/recipe-share/backend/internal/logger"
)

func main() {
	// Parse command line flags
	bucketPolicy := flag.Bool("bucket-policy", false, "Also apply the public-read policy for recipe images to the S3 bucket")
	flag.Parse()

	if err := run(*bucketPolicy); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(bucketPolicy bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Environment.IsProduction(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()

	// opening the store applies migrations or creates indexes
	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to prepare %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()
	log.Info("store schema is up to date", zap.String("driver", cfg.StoreDriver))

	if !bucketPolicy {
		return nil
	}
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if errors.Is(err, config.ErrStorageNotConfigured) {
		return errors.New("-bucket-policy requires S3_BUCKET")
	}
	if err != nil {
		return err
	}
	if err := s3cfg.SetupBucketPolicy(ctx); err != nil {
		return fmt.Errorf("failed to apply bucket policy: %w", err)
	}
	log.Info("bucket policy applied", zap.String("bucket", s3cfg.BucketName))
	return nil
}
