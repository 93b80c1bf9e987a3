// package models defines the data model for the movie watchlist
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/desertthunder/popcorn/internal/shared"
)

// MaxRating is the upper bound for both catalog and user ratings.
const MaxRating = 10

// notAvailable is the catalog's placeholder for missing fields.
const notAvailable = "N/A"

// MovieSummary is a single search result.
type MovieSummary struct {
	ID        string `json:"imdbID"`
	Title     string `json:"title"`
	Year      string `json:"year"`
	PosterURL string `json:"poster"`
}

// MovieDetail is the full catalog record for one movie.
type MovieDetail struct {
	ID             string  `json:"imdbID"`
	Title          string  `json:"title"`
	Year           string  `json:"year"`
	PosterURL      string  `json:"poster"`
	RuntimeMinutes int     `json:"runtime"`
	ReleaseDate    string  `json:"released"`
	Genre          string  `json:"genre"`
	Plot           string  `json:"plot"`
	Actors         string  `json:"actors"`
	Director       string  `json:"director"`
	CatalogRating  float64 `json:"imdbRating"`
}

// WatchedMovie is an entry of the user's watched list.
//
// The JSON keys form the persisted representation.
type WatchedMovie struct {
	ID             string  `json:"imdbID"`
	Title          string  `json:"title"`
	Year           string  `json:"year"`
	PosterURL      string  `json:"poster"`
	CatalogRating  float64 `json:"imdbRating"`
	RuntimeMinutes int     `json:"runtime"`
	UserRating     float64 `json:"userRating"`
}

// NewWatchedMovie builds a watchlist entry from a fetched detail and the user's rating.
func NewWatchedMovie(detail MovieDetail, userRating float64) WatchedMovie {
	return WatchedMovie{
		ID:             detail.ID,
		Title:          detail.Title,
		Year:           detail.Year,
		PosterURL:      detail.PosterURL,
		CatalogRating:  detail.CatalogRating,
		RuntimeMinutes: detail.RuntimeMinutes,
		UserRating:     userRating,
	}
}

// Validate checks the invariants of a single entry.
func (m WatchedMovie) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: watched movie id is required", shared.ErrInvalidInput)
	}
	if err := ValidateUserRating(m.UserRating); err != nil {
		return err
	}
	if math.IsNaN(m.CatalogRating) || math.IsInf(m.CatalogRating, 0) {
		return fmt.Errorf("%w: catalog rating must be a number, got %g", shared.ErrInvalidRating, m.CatalogRating)
	}
	return nil
}

// ValidateUserRating reports whether r is a usable personal rating: greater than zero, at most [MaxRating].
func ValidateUserRating(r float64) error {
	if math.IsNaN(r) || r <= 0 || r > MaxRating {
		return fmt.Errorf("%w: must be in (0, %d], got %g", shared.ErrInvalidRating, MaxRating, r)
	}
	return nil
}

// WatchlistStats aggregates the watched collection.
//
// All averages are zero when Count is zero.
type WatchlistStats struct {
	Count            int     `json:"count"`
	AvgCatalogRating float64 `json:"avgImdbRating"`
	AvgUserRating    float64 `json:"avgUserRating"`
	AvgRuntime       float64 `json:"avgRuntime"`
}

// ComputeStats returns the aggregates over movies.
func ComputeStats(movies []WatchedMovie) WatchlistStats {
	stats := WatchlistStats{Count: len(movies)}
	if stats.Count == 0 {
		return stats
	}

	var catalog, user, runtime float64
	for _, m := range movies {
		catalog += m.CatalogRating
		user += m.UserRating
		runtime += float64(m.RuntimeMinutes)
	}

	n := float64(stats.Count)
	stats.AvgCatalogRating = catalog / n
	stats.AvgUserRating = user / n
	stats.AvgRuntime = runtime / n
	return stats
}

// CleanField maps the catalog's "N/A" placeholder to the empty string.
func CleanField(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, notAvailable) {
		return ""
	}
	return s
}

// ParseRuntime converts a catalog runtime such as "148 min" to minutes. Unknown values yield 0.
func ParseRuntime(s string) int {
	s = CleanField(s)
	if s == "" {
		return 0
	}

	fields := strings.Fields(s)
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseRating converts a catalog rating such as "8.8" to a float clamped to [0, MaxRating]. Unknown values yield 0.
func ParseRating(s string) float64 {
	s = CleanField(s)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > MaxRating {
		return MaxRating
	}
	return f
}
