// Package services defines the [Catalog] interface for remote movie databases and implements it for OMDb.
//
// # Catalog Interface
//
// The interactive session and the CLI commands depend only on [Catalog], so tests substitute a double
// and the OMDb client stays the single place that knows the wire format.
//
// # OMDb Implementation
//
// [OMDbService] issues GET requests with the API key as a query parameter:
//   - search: ?apikey=K&s=QUERY
//   - detail: ?apikey=K&i=ID&plot=short
//
// Every field in an OMDb response is a string; "N/A" marks missing values.
// Responses are mapped to [models.MovieSummary] and [models.MovieDetail].
//
// Requests pass through a [rate.Limiter] so rapid keystrokes in the TUI cannot flood the API.
// Waiting on the limiter honors context cancellation like the request itself.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : no API key configured
//   - [shared.ErrMovieNotFound] : the catalog answered Response=False
//   - [shared.ErrFetchFailed] : transport error, non-2xx status or undecodable body
//   - [shared.ErrTimeout] : the limiter could not admit the request before the deadline
//
// A canceled context is returned wrapped as-is so callers can tell supersession apart from failure
// with errors.Is(err, context.Canceled).
package services
