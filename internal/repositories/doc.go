// Package repositories implements SQLite persistence for application state.
//
// The application needs a single durable primitive: a string-keyed, string-valued store.
// [KVRepository] provides it over the kv_entries table created by the embedded migrations in shared.
// Higher-level stores (the watchlist) serialize their state into one key.
package repositories
