package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search runs one catalog search and prints the results or the display message.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	outcome := r.session.Search(ctx, query)
	switch {
	case outcome.Skipped:
		return fmt.Errorf("%w: query must be at least %d characters", shared.ErrInvalidArgument, r.session.MinQueryLength())
	case outcome.Canceled():
		return ctx.Err()
	case outcome.Err != nil:
		r.logger.Debug("search failed", "query", query, "error", outcome.Err)
		if cmd.Bool("json") {
			if err := r.writeJSON(map[string]string{"query": query, "error": outcome.Message()}, cmd.Bool("pretty")); err != nil {
				return err
			}
		} else if err := r.writePlain("%s\n", outcome.Message()); err != nil {
			return err
		}
		return fmt.Errorf("search %q: %w", query, outcome.Err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(outcome.Movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q (%d)", query, len(outcome.Movies)))
	for i, m := range outcome.Movies {
		r.writePlain("%2d. %-12s %s (%s)\n", i+1, m.ID, m.Title, m.Year)
	}
	return nil
}
