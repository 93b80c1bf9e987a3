// package tasks implements the request lifecycle between the catalog and the display layers.
//
// Every request carries its own context. Issuing a newer request cancels the previous one, and an outcome
// whose context was canceled is never applied to display state.
package tasks

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
)

// DefaultMinQueryLength is the shortest trimmed query that reaches the catalog.
const DefaultMinQueryLength = 3

// SearchOutcome is the result of one [SearchController.Search] call.
type SearchOutcome struct {
	Query   string
	Movies  []models.MovieSummary
	Err     error
	Skipped bool // query too short, no request was made

	token context.Context
}

// Stale reports whether a newer search or a close superseded this outcome.
func (o SearchOutcome) Stale() bool {
	return o.token != nil && o.token.Err() != nil
}

// Canceled reports whether the outcome is a silent supersession rather than a result or a failure.
func (o SearchOutcome) Canceled() bool {
	return o.Stale() || services.IsCanceled(o.Err)
}

// Message returns the user-visible error text, empty for successes and cancellations.
func (o SearchOutcome) Message() string {
	if o.Canceled() {
		return ""
	}
	return shared.DisplayMessage(o.Err)
}

// SearchController issues catalog searches where only the latest request may be applied.
type SearchController struct {
	catalog services.Catalog
	minLen  int
	logger  *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSearchController creates a controller. A non-positive minLen uses [DefaultMinQueryLength].
func NewSearchController(catalog services.Catalog, minLen int, logger *log.Logger) *SearchController {
	if minLen <= 0 {
		minLen = DefaultMinQueryLength
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &SearchController{
		catalog: catalog,
		minLen:  minLen,
		logger:  shared.WithLogger(logger, "controller", "search"),
	}
}

// MinQueryLength returns the configured threshold.
func (c *SearchController) MinQueryLength() int {
	return c.minLen
}

// begin cancels the in-flight request, if any, and returns the token for the next one.
func (c *SearchController) begin(ctx context.Context) context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	token, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return token
}

// Cancel abandons the in-flight request without starting another.
func (c *SearchController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Search runs query against the catalog after canceling any earlier search.
//
// A trimmed query shorter than the minimum returns a Skipped outcome with an empty list and makes no request.
// The query is sent as typed.
func (c *SearchController) Search(ctx context.Context, query string) SearchOutcome {
	return c.Start(ctx, query)()
}

// Start cancels any earlier search and returns the call that performs this one.
//
// Supersession is decided when Start is called, so callers that run the returned function on another
// goroutine keep the order in which searches were issued.
func (c *SearchController) Start(ctx context.Context, query string) func() SearchOutcome {
	token := c.begin(ctx)
	return func() SearchOutcome {
		return c.run(token, query)
	}
}

func (c *SearchController) run(token context.Context, query string) SearchOutcome {
	out := SearchOutcome{Query: query, token: token}

	if utf8.RuneCountInString(strings.TrimSpace(query)) < c.minLen {
		out.Movies = []models.MovieSummary{}
		out.Skipped = true
		return out
	}

	movies, err := c.catalog.Search(token, query)
	switch {
	case token.Err() != nil:
		c.logger.Debug("search superseded", "query", query)
	case err != nil:
		c.logger.Warn("search failed", "query", query, "error", err)
		out.Err = err
	default:
		c.logger.Debug("search completed", "query", query, "results", len(movies))
		out.Movies = movies
	}

	return out
}

// SearchState is what the display layer shows for the search box and result list.
type SearchState struct {
	Query   string
	Movies  []models.MovieSummary
	Loading bool
	Err     string
}

// Begin records that a search for query has been issued.
func (s *SearchState) Begin(query string) {
	s.Query = query
	s.Loading = true
	s.Err = ""
}

// Apply folds an outcome into the state. Stale and canceled outcomes leave it untouched and report false.
func (s *SearchState) Apply(o SearchOutcome) bool {
	if o.Canceled() {
		return false
	}

	s.Query = o.Query
	s.Loading = false

	if o.Err != nil {
		s.Movies = nil
		s.Err = o.Message()
		return true
	}

	s.Movies = o.Movies
	s.Err = ""
	return true
}
