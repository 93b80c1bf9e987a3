package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
	"golang.org/x/sync/errgroup"
)

// DefaultLookupWorkers caps concurrent detail requests in [Lookup].
const DefaultLookupWorkers = 4

// LookupResult is the detail fetch for one requested id.
type LookupResult struct {
	ID     string
	Detail *models.MovieDetail
	Err    error
}

// Lookup fetches the detail for each id concurrently and returns results in request order.
//
// Per-id failures are reported in the results; the returned error is non-nil only when ctx ends
// or no ids were given. Duplicate ids are fetched once.
func Lookup(ctx context.Context, catalog services.Catalog, ids []string, workers int, progress chan<- ProgressUpdate) ([]LookupResult, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, fmt.Errorf("%w: at least one movie id is required", shared.ErrMissingArgument)
	}
	if workers <= 0 {
		workers = DefaultLookupWorkers
	}

	total := len(unique)
	results := make([]LookupResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	completed := 0

	for i, id := range unique {
		sendProgress(progress, fetchDetailUpdate(i+1, total, id))

		g.Go(func() error {
			detail, err := catalog.Detail(gctx, id)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			res := LookupResult{ID: id, Detail: detail, Err: err}
			results[i] = res

			mu.Lock()
			completed++
			sendProgress(progress, fetchedDetailUpdate(completed, total, res))
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("lookup interrupted: %w", err)
	}

	return results, nil
}
