// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/popcorn/internal/formatter"
	"github.com/desertthunder/popcorn/internal/tasks"
	"github.com/urfave/cli/v3"
)

// setupCommand creates the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Delete the stored watched list before opening it",
			},
		},
		Action: r.Setup,
	}
}

// searchCommand runs a single catalog search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search the catalog for movies by title",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// movieCommand fetches movie details.
func movieCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "movie",
		Aliases:   []string{"m", "detail"},
		Usage:     "Show details for one or more catalog ids",
		ArgsUsage: "<id> [id...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "poster",
				Usage: "Download the poster of the first movie to this file",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent detail requests",
				Value: tasks.DefaultLookupWorkers,
			},
		},
		Action: r.Movie,
	}
}

// watchedCommand manages the watched list.
func watchedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watched",
		Aliases: []string{"w"},
		Usage:   "Manage the list of movies you watched",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List watched movies",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.WatchedList,
			},
			{
				Name:      "add",
				Usage:     "Fetch a movie and add it with your rating",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.FloatFlag{
						Name:     "rating",
						Aliases:  []string{"r"},
						Usage:    "Your rating, greater than 0 and at most 10",
						Required: true,
					},
				},
				Action: r.WatchedAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie by id",
				ArgsUsage: "<id>",
				Action:    r.WatchedRemove,
			},
			{
				Name:  "stats",
				Usage: "Show watched list aggregates",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.WatchedStats,
			},
			{
				Name:  "export",
				Usage: "Export the watched list to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, md, txt, json)",
						Value:   string(formatter.FormatJSON),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default watched.<ext>)",
					},
					&cli.BoolFlag{
						Name:  "with-posters",
						Usage: "Download posters next to a Markdown export and link them locally",
					},
				},
				Action: r.WatchedExport,
			},
			{
				Name:  "posters",
				Usage: "Download posters for every watched movie",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (default posters_<timestamp>)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent downloads",
						Value: 4,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Downloads per second",
						Value: 5,
					},
				},
				Action: r.WatchedPosters,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie search and watchlist",
		Action:  r.TUI,
	}
}
