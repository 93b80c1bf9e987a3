// Package models defines the movie entities shared by the catalog client, the watchlist and the interfaces.
//
// The package contains two categories of types:
//
// 1. Catalog records: transient values produced by the remote catalog
//   - [MovieSummary] : one search hit
//   - [MovieDetail] : the full record for a selected movie
//
// 2. Watchlist records: persisted values owned by the watchlist store
//   - [WatchedMovie] : a movie the user watched, with their own rating
//   - [WatchlistStats] : aggregates over the watched collection
//
// The catalog reports every field as a string and uses "N/A" for missing values;
// [ParseRuntime] and [ParseRating] turn those into numbers.
package models
