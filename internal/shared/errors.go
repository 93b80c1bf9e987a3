package shared

import (
	"context"
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Catalog errors
	ErrMovieNotFound      = fmt.Errorf("movie not found")
	ErrFetchFailed        = fmt.Errorf("fetch failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Watchlist errors
	ErrInvalidRating  = fmt.Errorf("invalid rating")
	ErrNotWatched     = fmt.Errorf("movie not in watchlist")
	ErrPersistFailed  = fmt.Errorf("failed to persist watchlist")
	ErrMalformedStore = fmt.Errorf("malformed stored data")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// Messages shown in place of a result list or detail pane.
const (
	MsgMovieNotFound = "Movie not found"
	MsgFetchFailed   = "Something went wrong with fetching movies"
	MsgDetailTimeout = "Loading the movie took too long"
)

// DisplayMessage converts a catalog error into the single string presented to the user.
//
// Cancellation is not an error from the user's point of view and maps to "".
func DisplayMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, ErrMovieNotFound):
		return MsgMovieNotFound
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return MsgDetailTimeout
	default:
		return MsgFetchFailed
	}
}
