package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/database"
	"github.com/pageza/recipe-share/backend/internal/logger"
	"github.com/pageza/recipe-share/backend/internal/model"
	"github.com/pageza/recipe-share/backend/internal/repository"
)

func main() {
	force := flag.Bool("force", false, "Seed even when the store already holds recipes")
	flag.Parse()

	if err := run(*force); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(force bool) error {
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
	store, err := database.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := seed(ctx, store, force)
	if err != nil {
		return err
	}
	log.Info("seeding complete", zap.Int("recipes", n))
	return nil
}

// seed writes the sample profiles and recipes and returns the number of recipes created
func seed(ctx context.Context, store repository.Store, force bool) (int, error) {
	for i := range sampleProfiles {
		p := sampleProfiles[i]
		if err := store.CreateProfile(ctx, &p); err != nil {
			return 0, fmt.Errorf("failed to create profile %s: %w", p.Username, err)
		}
	}

	if !force {
		existing, err := store.ListRecipes(ctx, 1)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}

	created := 0
	for _, s := range sampleRecipes {
		r := s.recipe
		r.MainImageURL = model.PlaceholderImageURL
		r.Steps = numbered(s.steps)
		if _, err := store.CreateRecipe(ctx, &r); err != nil {
			return created, fmt.Errorf("failed to create recipe %q: %w", r.Title, err)
		}
		created++
	}
	return created, nil
}

func numbered(instructions []string) model.Steps {
	steps := make([]model.Step, len(instructions))
	for i, in := range instructions {
		steps[i] = model.Step{Instruction: in}
	}
	return model.NumberSteps(steps)
}
