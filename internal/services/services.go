// package services defines interface Catalog for reading movie data from remote HTTP APIs
//
// OMDb
package services

import (
	"context"

	"github.com/desertthunder/popcorn/internal/models"
)

// Catalog defines the read-only operations consumed from a remote movie database.
type Catalog interface {
	// Search returns the movies whose title matches query.
	// A catalog "no results" answer is reported as [shared.ErrMovieNotFound].
	Search(ctx context.Context, query string) ([]models.MovieSummary, error)

	// Detail retrieves the full record for a catalog identifier.
	Detail(ctx context.Context, id string) (*models.MovieDetail, error)

	// Name returns the name of the catalog (e.g., "OMDb")
	Name() string
}
