package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/popcorn/internal/formatter"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/tasks"
	"github.com/urfave/cli/v3"
)

// WatchedList prints the watched movies in insertion order.
func (r *Runner) WatchedList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireWatchlist(); err != nil {
		return err
	}

	movies := r.store.List()
	if cmd.Bool("json") {
		return r.writeJSON(movies, true)
	}

	if len(movies) == 0 {
		return r.writePlain("No movies on your list yet. Add one with 'popcorn watched add <id> --rating N'.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Movies you watched (%d)", len(movies)))
	for i, m := range movies {
		r.writePlain("%2d. %-12s %s (%s)  ⭐️ %s  🌟 %s  ⏳ %s\n",
			i+1, m.ID, m.Title, m.Year,
			formatter.FormatRating(m.CatalogRating),
			formatter.FormatRating(m.UserRating),
			formatter.FormatRuntime(m.RuntimeMinutes))
	}
	return nil
}

// WatchedAdd fetches the movie and records it with the user's rating.
func (r *Runner) WatchedAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireWatchlist(); err != nil {
		return err
	}
	if err := r.requireCatalog(); err != nil {
		return err
	}

	id := strings.TrimSpace(cmd.Args().First())
	if id == "" {
		return fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	rating := cmd.Float("rating")
	if err := models.ValidateUserRating(rating); err != nil {
		return err
	}

	fetch, ok := r.session.Open(ctx, id)
	if !ok {
		return fmt.Errorf("%w: could not select %q", shared.ErrInvalidArgument, id)
	}
	outcome := fetch()
	if outcome.Err != nil {
		r.session.CloseDetail()
		return fmt.Errorf("%s: %w", outcome.Message(), outcome.Err)
	}
	if outcome.Detail == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: no detail for %s", shared.ErrFetchFailed, id)
	}

	added, err := r.session.AddToWatchlist(*outcome.Detail, rating)
	if err != nil {
		if added {
			r.logger.Warn("movie added but not saved", "id", id, "error", err)
		}
		return err
	}
	if !added {
		r.session.CloseDetail()
		return r.writePlain("%s is already on your list\n", outcome.Detail.Title)
	}

	return r.writePlain("✓ Added %s (%s) rated %s\n", outcome.Detail.Title, outcome.Detail.Year, formatter.FormatRating(rating))
}

// WatchedRemove deletes a movie by id.
func (r *Runner) WatchedRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireWatchlist(); err != nil {
		return err
	}

	id := strings.TrimSpace(cmd.Args().First())
	if id == "" {
		return fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	removed, err := r.session.RemoveFromWatchlist(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %s", shared.ErrNotWatched, id)
	}
	return r.writePlain("✓ Removed %s\n", id)
}

// WatchedStats prints the aggregates of the watched list.
func (r *Runner) WatchedStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireWatchlist(); err != nil {
		return err
	}

	stats := r.store.Stats()
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Movies you watched")
	r.writePlain("#️⃣  %d movies\n", stats.Count)
	r.writePlain("⭐️ %s average IMDb rating\n", formatter.FormatRating(stats.AvgCatalogRating))
	r.writePlain("🌟 %s average rating\n", formatter.FormatRating(stats.AvgUserRating))
	r.writePlain("⏳ %s average runtime\n", formatter.FormatRuntime(int(stats.AvgRuntime+0.5)))
	return nil
}

// WatchedExport writes the watched list to a file.
//
// Markdown exports downloaded with --with-posters link local poster files.
func (r *Runner) WatchedExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireWatchlist(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	export := formatter.NewWatchlistExport(r.store.List())
	output := cmd.String("output")

	if format == formatter.FormatMarkdown && cmd.Bool("with-posters") {
		return r.exportMarkdownWithPosters(ctx, export, output)
	}

	path, err := formatter.WriteExport(export, format, output)
	if err != nil {
		return err
	}

	r.logger.Info("watchlist exported", "format", format, "movies", len(export.Movies), "path", path)
	return r.writePlain("✓ Exported %d movies to %s\n", len(export.Movies), path)
}

func (r *Runner) exportMarkdownWithPosters(ctx context.Context, export *formatter.WatchlistExport, output string) error {
	if output == "" {
		output = "watched." + formatter.FormatMarkdown.Extension()
	}
	base := filepath.Dir(output)

	batch, err := tasks.DownloadPosters(ctx, nil, export.Movies, tasks.PosterOpts{OutputDir: filepath.Join(base, "posters")})
	if err != nil {
		return err
	}

	posters := make(map[string]string, batch.Downloaded)
	for id, p := range batch.Paths() {
		if rel, err := filepath.Rel(base, p); err == nil {
			posters[id] = filepath.ToSlash(rel)
		}
	}

	data, err := formatter.ExportToMarkdown(export, posters)
	if err != nil {
		return fmt.Errorf("failed to generate md: %w", err)
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write md file: %w", err)
	}

	return r.writePlain("✓ Exported %d movies to %s (%d posters)\n", len(export.Movies), output, batch.Downloaded)
}

// WatchedPosters downloads every watched movie's poster and writes a manifest.
func (r *Runner) WatchedPosters(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireWatchlist(); err != nil {
		return err
	}

	movies := r.store.List()
	if len(movies) == 0 {
		return fmt.Errorf("%w: the watched list is empty", shared.ErrInvalidInput)
	}

	progress, done := r.printProgress()
	result, err := tasks.DownloadPosters(ctx, progress, movies, tasks.PosterOpts{
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("Downloaded %d, skipped %d, failed %d", result.Downloaded, result.Skipped, result.Failed)
	r.writePlain("Output: %s\n", result.OutputDir)

	if result.Failed > 0 && result.Downloaded == 0 {
		return errors.New("no posters could be downloaded")
	}
	return nil
}
