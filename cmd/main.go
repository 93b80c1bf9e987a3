package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/repositories"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/watchlist"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadConfig(defaultConfigPath)
	if err != nil {
		if !errors.Is(err, shared.ErrMissingConfig) {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
		config = shared.DefaultConfig()
	}
	if err := config.ApplyEnv(); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}
	if err := config.Validate(); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	var catalog services.Catalog
	if svc, err := services.NewOMDbServiceFromConfig(config.Catalog, logger); err == nil {
		catalog = svc
	} else {
		logger.Debug("catalog unavailable", "error", err)
	}

	var store *watchlist.Store
	if db, err := shared.OpenDatabase(config.Database); err == nil {
		defer db.Close()
		store = watchlist.Open(repositories.NewKVRepository(db), config.Watchlist.Key, logger)
	} else {
		logger.Warn("watchlist unavailable", "path", config.Database.Path, "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: defaultConfigPath,
		Catalog:    catalog,
		Store:      store,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "popcorn",
		Usage:    "Search movies and keep a rated list of what you watched",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		exit(logger, err)
	}
}

func exit(logger *log.Logger, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		os.Exit(130)
	default:
		logger.Fatalf("application error: %v", err)
	}
}
