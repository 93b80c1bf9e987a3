package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/popcorn/internal/formatter"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Movie fetches the detail for each id argument and prints it.
//
// With --poster the first movie's poster is saved to the given file.
func (r *Runner) Movie(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one movie id is required", shared.ErrMissingArgument)
	}

	useJSON := cmd.Bool("json")

	var progress chan tasks.ProgressUpdate
	var done chan struct{}
	if !useJSON && len(ids) > 1 {
		progress, done = r.printProgress()
	}

	results, err := tasks.Lookup(ctx, r.catalog, ids, int(cmd.Int("workers")), progress)
	if progress != nil {
		close(progress)
		<-done
	}
	if err != nil {
		return err
	}

	details := make([]*models.MovieDetail, 0, len(results))
	var failed []error
	for _, res := range results {
		if res.Err != nil {
			r.logger.Debug("detail failed", "id", res.ID, "error", res.Err)
			failed = append(failed, fmt.Errorf("%s: %s", res.ID, shared.DisplayMessage(res.Err)))
			continue
		}
		details = append(details, res.Detail)
	}

	if useJSON {
		if err := r.writeJSON(details, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		for _, d := range details {
			r.printDetail(d)
		}
		for _, err := range failed {
			r.writePlain("✗ %v\n", err)
		}
	}

	if dest := cmd.String("poster"); dest != "" && len(details) > 0 {
		if err := r.savePoster(ctx, details[0], dest); err != nil {
			return err
		}
	}

	if len(details) == 0 {
		return fmt.Errorf("%w: %w", shared.ErrFetchFailed, errors.Join(failed...))
	}
	return nil
}

func (r *Runner) printDetail(d *models.MovieDetail) {
	r.writePlainHeader(fmt.Sprintf("%s (%s)", d.Title, d.Year))
	r.writePlain("ID:        %s\n", d.ID)
	r.writePlain("Released:  %s\n", orNA(d.ReleaseDate))
	r.writePlain("Runtime:   %s\n", formatter.FormatRuntime(d.RuntimeMinutes))
	r.writePlain("Genre:     %s\n", orNA(d.Genre))
	r.writePlain("Director:  %s\n", orNA(d.Director))
	r.writePlain("Starring:  %s\n", orNA(d.Actors))
	r.writePlain("IMDb:      ⭐️ %s\n", formatter.FormatRating(d.CatalogRating))
	if m, ok := r.watchedEntry(d.ID); ok {
		r.writePlain("You rated: %s\n", formatter.FormatRating(m.UserRating))
	}
	if d.Plot != "" {
		r.writePlainln("%s", d.Plot)
	}
	r.writePlain("\n")
}

func (r *Runner) savePoster(ctx context.Context, d *models.MovieDetail, dest string) error {
	if d.PosterURL == "" {
		r.logger.Warn("movie has no poster", "id", d.ID)
		return nil
	}

	path, err := formatter.WritePoster(ctx, d.PosterURL, dest)
	if err != nil {
		return fmt.Errorf("failed to save poster: %w", err)
	}
	r.logger.Info("poster saved", "id", d.ID, "path", path)
	return nil
}

func (r *Runner) watchedEntry(id string) (models.WatchedMovie, bool) {
	if r.store == nil {
		return models.WatchedMovie{}, false
	}
	return r.store.Get(id)
}

// printProgress starts a goroutine that prints updates until the returned channel is closed.
// done is closed once every update has been written.
func (r *Runner) printProgress() (chan tasks.ProgressUpdate, chan struct{}) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()
	return progress, done
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
