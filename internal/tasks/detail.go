package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/services"
	"github.com/desertthunder/popcorn/internal/shared"
)

// DefaultDetailTimeout bounds a single detail load.
const DefaultDetailTimeout = 10 * time.Second

// DetailOutcome is the result of one [DetailController.Fetch] call.
type DetailOutcome struct {
	ID     string
	Detail *models.MovieDetail
	Err    error

	token context.Context
}

// Stale reports whether the selection changed or closed after the fetch started.
func (o DetailOutcome) Stale() bool {
	return o.token == nil || o.token.Err() != nil
}

// Message returns the user-visible error text.
func (o DetailOutcome) Message() string {
	return shared.DisplayMessage(o.Err)
}

// DetailController tracks the selected movie and the fetch for it.
//
// Selecting the same id twice clears the selection. Any selection change cancels the in-flight fetch.
type DetailController struct {
	catalog services.Catalog
	timeout time.Duration
	logger  *log.Logger

	mu       sync.Mutex
	selected string
	token    context.Context
	cancel   context.CancelFunc
}

// NewDetailController creates a controller. A non-positive timeout uses [DefaultDetailTimeout].
func NewDetailController(catalog services.Catalog, timeout time.Duration, logger *log.Logger) *DetailController {
	if timeout <= 0 {
		timeout = DefaultDetailTimeout
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &DetailController{
		catalog: catalog,
		timeout: timeout,
		logger:  shared.WithLogger(logger, "controller", "detail"),
	}
}

// Select changes the selection to id and reports whether a detail view should be open.
//
// An empty id or the currently selected id clears the selection.
func (c *DetailController) Select(ctx context.Context, id string) bool {
	id = strings.TrimSpace(id)

	c.mu.Lock()
	defer c.mu.Unlock()

	toggle := id == c.selected
	c.closeLocked()
	if id == "" || toggle {
		return false
	}

	c.selected = id
	c.token, c.cancel = context.WithCancel(ctx)
	return true
}

// Selected returns the current selection, or "" when the detail view is closed.
func (c *DetailController) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Close clears the selection and cancels its fetch.
func (c *DetailController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *DetailController) closeLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.selected = ""
	c.token = nil
	c.cancel = nil
}

// Open selects id and returns the fetch bound to that selection.
//
// ok is false when the selection was cleared instead (empty or repeated id).
func (c *DetailController) Open(ctx context.Context, id string) (fetch func() DetailOutcome, ok bool) {
	if !c.Select(ctx, id) {
		return nil, false
	}

	c.mu.Lock()
	selected, token := c.selected, c.token
	c.mu.Unlock()

	return func() DetailOutcome { return c.fetch(token, selected) }, true
}

// Fetch loads the detail for id if it is still the selection.
//
// A fetch exceeding the configured timeout fails with [shared.ErrTimeout].
func (c *DetailController) Fetch(id string) DetailOutcome {
	c.mu.Lock()
	selected, token := c.selected, c.token
	c.mu.Unlock()

	if selected != id || token == nil {
		return DetailOutcome{ID: id}
	}
	return c.fetch(token, id)
}

func (c *DetailController) fetch(token context.Context, id string) DetailOutcome {
	out := DetailOutcome{ID: id, token: token}
	if token.Err() != nil {
		return out
	}

	ctx, cancel := context.WithTimeout(token, c.timeout)
	defer cancel()

	detail, err := c.catalog.Detail(ctx, id)
	switch {
	case token.Err() != nil:
		c.logger.Debug("detail superseded", "id", id)
	case err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		c.logger.Warn("detail timed out", "id", id, "timeout", c.timeout)
		out.Err = fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	case err != nil:
		c.logger.Warn("detail failed", "id", id, "error", err)
		out.Err = err
	default:
		out.Detail = detail
	}

	return out
}

// DetailState is what the display layer shows for the detail pane.
type DetailState struct {
	ID      string
	Detail  *models.MovieDetail
	Loading bool
	Err     string
	Rating  float64 // personal rating being composed, 0 when unset
}

// Open reports whether a movie is selected.
func (s *DetailState) Open() bool {
	return s.ID != ""
}

// Begin records that the detail for id is loading.
func (s *DetailState) Begin(id string) {
	*s = DetailState{ID: id, Loading: true}
}

// Clear closes the detail pane.
func (s *DetailState) Clear() {
	*s = DetailState{}
}

// Apply folds an outcome into the state. Outcomes for other selections or stale fetches report false.
func (s *DetailState) Apply(o DetailOutcome) bool {
	if o.Stale() || o.ID != s.ID {
		return false
	}

	s.Loading = false
	if o.Err != nil {
		s.Detail = nil
		s.Err = o.Message()
		return true
	}

	s.Detail = o.Detail
	s.Err = ""
	return true
}

// SetRating sets the composed rating, clamped to [1, models.MaxRating].
func (s *DetailState) SetRating(r float64) {
	switch {
	case r < 1:
		r = 1
	case r > models.MaxRating:
		r = models.MaxRating
	}
	s.Rating = r
}

// AdjustRating moves the composed rating by delta, starting from zero when unset.
func (s *DetailState) AdjustRating(delta float64) {
	s.SetRating(s.Rating + delta)
}
