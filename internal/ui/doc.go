// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [SearchView] : a text input and the result list. Every edit starts a search through [tasks.Session].
//  2. [DetailView] : the selected movie, a 1-10 rating picker and the add-to-list action.
//  3. [WatchedView] : the watched list with its averages; entries can be opened or deleted.
//
// Searches and detail loads run as bubbletea commands. The request is registered with the session inside
// Update, before the command is scheduled, so a superseded result that arrives late is dropped by
// [tasks.SearchState.Apply] and never reaches the screen.
//
// Keyboard navigation uses arrow keys in the search view and vim-style bindings elsewhere, with contextual
// help rendered by charmbracelet/bubbles/help.
package ui
