package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/popcorn/internal/formatter"
	"github.com/desertthunder/popcorn/internal/models"
	"golang.org/x/time/rate"
)

// PosterOpts configures [DownloadPosters].
type PosterOpts struct {
	OutputDir  string  // Destination directory (default: posters_{epoch})
	NumWorkers int     // Concurrent downloads (default: 4, max: 10)
	RateLimit  float64 // Downloads per second (default: 5)

	// Fetch downloads one poster to dest. Defaults to [formatter.WritePoster].
	Fetch func(ctx context.Context, url, dest string) (string, error)
}

// PosterResult is the outcome for one watched movie.
type PosterResult struct {
	ID      string `json:"imdbID"`
	Title   string `json:"title"`
	Path    string `json:"path,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

// PosterBatchResult summarizes a [DownloadPosters] run.
type PosterBatchResult struct {
	Total        int            `json:"total"`
	Downloaded   int            `json:"downloaded"`
	Skipped      int            `json:"skipped"`
	Failed       int            `json:"failed"`
	OutputDir    string         `json:"outputDir"`
	ManifestPath string         `json:"-"`
	Results      []PosterResult `json:"results"`
}

// Paths maps movie IDs to the files that were written.
func (r *PosterBatchResult) Paths() map[string]string {
	paths := make(map[string]string, r.Downloaded)
	for _, res := range r.Results {
		if res.Path != "" {
			paths[res.ID] = res.Path
		}
	}
	return paths
}

// DownloadPosters saves the poster of every movie concurrently with rate limiting and progress tracking.
//
// Movies without a poster URL are skipped. Individual failures are recorded in the result; a manifest
// describing the run is written to the output directory.
func DownloadPosters(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	movies []models.WatchedMovie,
	opts PosterOpts,
) (*PosterBatchResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("posters_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Fetch == nil {
		opts.Fetch = formatter.WritePoster
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &PosterBatchResult{
		Total:     len(movies),
		OutputDir: opts.OutputDir,
		Results:   make([]PosterResult, 0, len(movies)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan models.WatchedMovie, len(movies))
	results := make(chan PosterResult, len(movies))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go posterWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for _, m := range movies {
			select {
			case <-ctx.Done():
				return
			case jobs <- m:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Err != nil {
			res.Error = res.Err.Error()
			result.Failed++
		} else if res.Skipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
		result.Results = append(result.Results, res)
		sendProgress(prog, posterCompletedUpdate(completed, len(movies), res))
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("poster download interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "poster_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("downloads completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// posterWorker downloads posters from the jobs channel until it closes or ctx ends.
func posterWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan models.WatchedMovie,
	results chan<- PosterResult,
	opts PosterOpts,
) {
	defer wg.Done()

	for m := range jobs {
		res := PosterResult{ID: m.ID, Title: m.Title}

		if m.PosterURL == "" {
			res.Skipped = true
			results <- res
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		name, err := formatter.PosterFilename(m.ID, m.PosterURL)
		if err != nil {
			res.Err = err
			results <- res
			continue
		}

		path, err := opts.Fetch(ctx, m.PosterURL, filepath.Join(opts.OutputDir, name))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			res.Err = err
		}
		res.Path = path
		results <- res
	}
}
