// OMDb implementation of [Catalog]
//
// Response types based on https://www.omdbapi.com/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	"golang.org/x/time/rate"
)

const defaultOMDbBaseURL string = "https://www.omdbapi.com/"

// omdbSearchHit is one element of the "Search" array.
type omdbSearchHit struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// OMDbSearchResponse is the body of a ?s= request.
type OMDbSearchResponse struct {
	Search       []omdbSearchHit `json:"Search"`
	TotalResults string          `json:"totalResults"`
	Response     string          `json:"Response"`
	Error        string          `json:"Error"`
}

// OMDbDetailResponse is the body of an ?i= request.
type OMDbDetailResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// OMDbOptions configures an [OMDbService].
type OMDbOptions struct {
	BaseURL           string
	APIKey            string
	HTTPClient        *http.Client
	Timeout           time.Duration
	RequestsPerSecond float64 // zero or less disables rate limiting
	Burst             int
	Logger            *log.Logger
}

// OMDbService implements the [Catalog] interface for the OMDb API.
type OMDbService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewOMDbService creates a new OMDb catalog client.
func NewOMDbService(opts OMDbOptions) (*OMDbService, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: OMDb API key is not set", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOMDbBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	return &OMDbService{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		logger:     shared.WithLogger(opts.Logger, "catalog", "omdb"),
	}, nil
}

// NewOMDbServiceFromConfig builds the client from the [shared.CatalogConfig] section.
func NewOMDbServiceFromConfig(cfg shared.CatalogConfig, logger *log.Logger) (*OMDbService, error) {
	return NewOMDbService(OMDbOptions{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Logger:            logger,
	})
}

// Name returns the catalog name.
func (o *OMDbService) Name() string {
	return "OMDb"
}

func (o *OMDbService) doRequest(ctx context.Context, params url.Values, result any) error {
	requestID := shared.GenerateID()
	logger := o.logger.With("request_id", requestID)

	if err := o.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("request abandoned: %w", ctxErr)
		}
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	u, err := url.Parse(o.baseURL)
	if err != nil {
		return fmt.Errorf("%w: invalid base URL: %v", shared.ErrFetchFailed, err)
	}
	params.Set("apikey", o.apiKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", shared.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("catalog request", "s", params.Get("s"), "i", params.Get("i"))

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("request abandoned: %w", ctxErr)
		}
		logger.Warn("catalog request failed", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("catalog returned non-success status", "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", shared.ErrFetchFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("request abandoned: %w", ctxErr)
		}
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrFetchFailed, err)
	}

	return nil
}

// Search queries the catalog by title.
//
// Calls GET ?s={query}.
func (o *OMDbService) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	var resp OMDbSearchResponse
	if err := o.doRequest(ctx, url.Values{"s": {query}}, &resp); err != nil {
		return nil, err
	}

	if strings.EqualFold(resp.Response, "False") {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, resp.Error)
	}

	movies := make([]models.MovieSummary, 0, len(resp.Search))
	for _, hit := range resp.Search {
		movies = append(movies, models.MovieSummary{
			ID:        hit.ImdbID,
			Title:     models.CleanField(hit.Title),
			Year:      models.CleanField(hit.Year),
			PosterURL: models.CleanField(hit.Poster),
		})
	}

	return movies, nil
}

// Detail retrieves one movie by its catalog identifier.
//
// Calls GET ?i={id}&plot=short.
func (o *OMDbService) Detail(ctx context.Context, id string) (*models.MovieDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	var resp OMDbDetailResponse
	if err := o.doRequest(ctx, url.Values{"i": {id}, "plot": {"short"}}, &resp); err != nil {
		return nil, err
	}

	if strings.EqualFold(resp.Response, "False") {
		return nil, fmt.Errorf("%w: %s", shared.ErrMovieNotFound, resp.Error)
	}
	if resp.ImdbID == "" {
		return nil, fmt.Errorf("%w: empty detail record for %s", shared.ErrFetchFailed, id)
	}

	return resp.toDetail(), nil
}

func (r OMDbDetailResponse) toDetail() *models.MovieDetail {
	return &models.MovieDetail{
		ID:             r.ImdbID,
		Title:          models.CleanField(r.Title),
		Year:           models.CleanField(r.Year),
		PosterURL:      models.CleanField(r.Poster),
		RuntimeMinutes: models.ParseRuntime(r.Runtime),
		ReleaseDate:    models.CleanField(r.Released),
		Genre:          models.CleanField(r.Genre),
		Plot:           models.CleanField(r.Plot),
		Actors:         models.CleanField(r.Actors),
		Director:       models.CleanField(r.Director),
		CatalogRating:  models.ParseRating(r.ImdbRating),
	}
}

// IsCanceled reports whether err came from a superseded or closed request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
