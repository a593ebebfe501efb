package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/api"
	"github.com/pageza/recipe-share/backend/internal/cache"
	"github.com/pageza/recipe-share/backend/internal/database"
	"github.com/pageza/recipe-share/backend/internal/logger"
	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/router"
	"github.com/pageza/recipe-share/backend/internal/server"
	"github.com/pageza/recipe-share/backend/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Environment.IsProduction(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()

	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	defer store.Close()

	var redisClient *redis.Client
	var pages cache.PageCache = cache.NewMemoryCache(cfg.PageCacheTTL)
	if cfg.RedisEnabled() {
		rc, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			// Continue with in-process cache and rate limiting
			log.Warn("redis unavailable", zap.Error(err))
		} else {
			defer rc.Close()
			redisClient = rc
			pages = cache.NewRedisCache(rc, cfg.PageCacheTTL)
		}
	}

	var images service.ImageStore
	s3cfg, err := config.NewS3Config(ctx, cfg)
	switch {
	case errors.Is(err, config.ErrStorageNotConfigured):
		log.Warn("object storage not configured; image uploads will be rejected")
	case err != nil:
		return err
	default:
		images = service.NewS3ImageStore(s3cfg, log)
	}

	profiles := service.NewProfileService(store)
	auth, err := service.NewAuthService(cfg, store, profiles, log)
	if err != nil {
		return err
	}
	recipes := service.NewRecipeService(store, store, log)
	mutations := service.NewMutationService(recipes, images, pages, log)

	handlers := router.Handlers{
		Health:  api.NewHealthHandler(store, log),
		Recipes: api.NewRecipeHandler(recipes, mutations, auth, pages, cfg.MaxUploadBytes, log),
		Auth:    api.NewAuthHandler(auth, log),
		Profile: api.NewProfileHandler(profiles, auth, log),
	}

	llm, err := service.NewLLMService(cfg, log)
	if err != nil {
		log.Warn("ingredient scaling disabled", zap.Error(err))
	} else {
		limiter := middleware.NewScaleRateLimiter(redisClient, cfg.ScaleRateLimit, log)
		handlers.Scale = api.NewScaleHandler(service.NewScalingService(llm, log), auth, limiter, log)
	}

	srv := server.New(cfg, router.SetupRouter(cfg, handlers, log), log)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	// Gracefully shutdown the server
	log.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info("server stopped")
	return nil
}
