package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/popcorn/internal/repositories"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/watchlist"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	config := r.setupConfig(configPath)

	if err := config.ApplyEnv(); err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, m := range applied {
		r.logger.Info("applied migration", "version", m.Version, "name", m.Name)
	}

	kv := repositories.NewKVRepository(db)
	key := config.Watchlist.Key
	if key == "" {
		key = watchlist.DefaultKey
	}
	if cmd.Bool("reset") {
		if err := kv.Delete(key); err != nil {
			return fmt.Errorf("failed to reset watched list: %w", err)
		}
		r.logger.Info("watched list reset", "key", key)
	}

	store := watchlist.Open(kv, key, r.logger)

	r.writePlain("✓ Database ready: %s (%d migrations applied)\n", config.Database.Path, len(applied))
	r.writePlain("✓ Watched list: %d movies\n", store.Len())
	r.writeStoredLists(kv)

	if config.Catalog.APIKey == "" {
		r.writePlainln("Next steps:")
		r.writePlain("1. Set catalog.api_key in %s or export POPCORN_OMDB_API_KEY\n", configPath)
		r.writePlain("2. Run 'popcorn search \"the matrix\"' to test the catalog\n")
	}
	return nil
}

// setupConfig loads the config at path, creating it from the template when missing.
func (r *Runner) setupConfig(path string) *shared.Config {
	config, err := shared.LoadConfig(path)
	if err == nil {
		return config
	}
	if !errors.Is(err, shared.ErrMissingConfig) {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		return shared.DefaultConfig()
	}

	r.logger.Info("config file not found, creating from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warn("failed to create config file, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	r.logger.Info("config file created", "path", path)

	if config, err = shared.LoadConfig(path); err != nil {
		r.logger.Warn("failed to load created config, using defaults", "error", err)
		return shared.DefaultConfig()
	}
	return config
}

// writeStoredLists prints every stored key with its last save time.
func (r *Runner) writeStoredLists(kv *repositories.KVRepository) {
	keys, err := kv.Keys()
	if err != nil {
		r.logger.Warn("failed to list stored keys", "error", err)
		return
	}
	for _, k := range keys {
		at, err := kv.UpdatedAt(k)
		if err != nil {
			r.logger.Warn("failed to read save time", "key", k, "error", err)
			continue
		}
		r.writePlain("  %-12s saved %s\n", k, at.Local().Format(time.DateTime))
	}
}
