package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/watchlist"
)

// SessionOpts configures a [Session].
type SessionOpts struct {
	MinQueryLength int
	DetailTimeout  time.Duration
	Logger         *log.Logger
}

// Session owns the search and detail controllers together with the watchlist they feed.
//
// It applies the cross-cutting rules: a new search closes the detail view, and adding a movie closes it too.
type Session struct {
	catalog   services.Catalog
	search    *SearchController
	detail    *DetailController
	watchlist *watchlist.Store
	logger    *log.Logger
}

// NewSession wires a session around catalog and store.
func NewSession(catalog services.Catalog, store *watchlist.Store, opts SessionOpts) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Session{
		catalog:   catalog,
		search:    NewSearchController(catalog, opts.MinQueryLength, opts.Logger),
		detail:    NewDetailController(catalog, opts.DetailTimeout, opts.Logger),
		watchlist: store,
		logger:    shared.WithLogger(opts.Logger, "component", "session"),
	}
}

// NewSessionFromConfig builds a session using the [shared.CatalogConfig] section.
func NewSessionFromConfig(catalog services.Catalog, store *watchlist.Store, cfg shared.CatalogConfig, logger *log.Logger) *Session {
	return NewSession(catalog, store, SessionOpts{
		MinQueryLength: cfg.MinQueryLength,
		DetailTimeout:  cfg.DetailTimeout(),
		Logger:         logger,
	})
}

// Catalog returns the catalog the session queries.
func (s *Session) Catalog() services.Catalog { return s.catalog }

// Watchlist returns the injected store.
func (s *Session) Watchlist() *watchlist.Store { return s.watchlist }

// MinQueryLength returns the shortest query that is sent to the catalog.
func (s *Session) MinQueryLength() int { return s.search.MinQueryLength() }

// Search closes any open detail view and runs query, superseding earlier searches.
func (s *Session) Search(ctx context.Context, query string) SearchOutcome {
	return s.StartSearch(ctx, query)()
}

// StartSearch closes any open detail view, supersedes earlier searches and returns the call that runs this one.
func (s *Session) StartSearch(ctx context.Context, query string) func() SearchOutcome {
	s.detail.Close()
	return s.search.Start(ctx, query)
}

// Select changes the detail selection. See [DetailController.Select].
func (s *Session) Select(ctx context.Context, id string) bool {
	return s.detail.Select(ctx, id)
}

// Open selects id and returns the detail fetch bound to that selection. See [DetailController.Open].
func (s *Session) Open(ctx context.Context, id string) (func() DetailOutcome, bool) {
	return s.detail.Open(ctx, id)
}

// Selected returns the id shown in the detail view.
func (s *Session) Selected() string {
	return s.detail.Selected()
}

// FetchDetail loads the detail for id when it is still selected.
func (s *Session) FetchDetail(id string) DetailOutcome {
	return s.detail.Fetch(id)
}

// CloseDetail closes the detail view and cancels its fetch.
func (s *Session) CloseDetail() {
	s.detail.Close()
}

// AddToWatchlist records detail with the user's rating and closes the detail view.
//
// Returns added=false when the movie is already on the list. A persistence failure is returned with added=true:
// the entry is kept in memory.
func (s *Session) AddToWatchlist(detail models.MovieDetail, rating float64) (bool, error) {
	if s.watchlist == nil {
		return false, fmt.Errorf("%w: watchlist not initialized", shared.ErrServiceUnavailable)
	}

	added, err := s.watchlist.Add(models.NewWatchedMovie(detail, rating))
	if added {
		s.detail.Close()
	}
	return added, err
}

// RemoveFromWatchlist deletes id from the list.
func (s *Session) RemoveFromWatchlist(id string) (bool, error) {
	if s.watchlist == nil {
		return false, fmt.Errorf("%w: watchlist not initialized", shared.ErrServiceUnavailable)
	}
	return s.watchlist.Remove(id)
}

// Close cancels every in-flight request.
func (s *Session) Close() {
	s.search.Cancel()
	s.detail.Close()
}
