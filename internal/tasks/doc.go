// Package tasks drives catalog requests on behalf of the CLI and the TUI.
//
// # Search
//
// [SearchController.Search] cancels the previous search before issuing a new one. A trimmed query shorter
// than the configured minimum short-circuits with an empty, Skipped outcome. [SearchState.Apply] drops any
// outcome whose request context was canceled, so only the latest query ever reaches the display.
//
// # Detail
//
// [DetailController] tracks the selected movie. Selecting the same id again closes the view; every
// selection change cancels the in-flight fetch. Fetches are bounded by a timeout that surfaces as a
// visible error.
//
// # Session
//
// [Session] combines both controllers with an injected [watchlist.Store]. Issuing a search closes the
// detail view, as does adding the selected movie to the watchlist.
//
// # Batch operations
//
// [Lookup] fetches several details concurrently with errgroup. [DownloadPosters] runs a rate limited
// worker pool over the watched list. Both report [ProgressUpdate] values over a channel without blocking.
package tasks
