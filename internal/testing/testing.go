// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/popcorn/internal/models"
)

// MockCatalog is a test double for [services.Catalog].
//
// SearchFunc and DetailFunc default to empty successful answers. Calls are counted per query and id.
type MockCatalog struct {
	SearchFunc func(ctx context.Context, query string) ([]models.MovieSummary, error)
	DetailFunc func(ctx context.Context, id string) (*models.MovieDetail, error)

	mu       sync.Mutex
	searches []string
	details  []string
}

func (m *MockCatalog) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	m.mu.Lock()
	m.searches = append(m.searches, query)
	m.mu.Unlock()

	if m.SearchFunc == nil {
		return []models.MovieSummary{}, nil
	}
	return m.SearchFunc(ctx, query)
}

func (m *MockCatalog) Detail(ctx context.Context, id string) (*models.MovieDetail, error) {
	m.mu.Lock()
	m.details = append(m.details, id)
	m.mu.Unlock()

	if m.DetailFunc == nil {
		return &models.MovieDetail{ID: id}, nil
	}
	return m.DetailFunc(ctx, id)
}

func (m *MockCatalog) Name() string { return "mock" }

// Searches returns the queries received so far.
func (m *MockCatalog) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

// Details returns the ids requested so far.
func (m *MockCatalog) Details() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.details...)
}

// BlockingSearch returns a SearchFunc that waits for ctx cancellation or a value on release.
func BlockingSearch(release <-chan []models.MovieSummary) func(context.Context, string) ([]models.MovieSummary, error) {
	return func(ctx context.Context, _ string) ([]models.MovieSummary, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case movies := <-release:
			return movies, nil
		}
	}
}

// MemoryKV is an in-memory key-value store with optional injected failures.
type MemoryKV struct {
	mu      sync.Mutex
	data    map[string]string
	GetErr  error
	SetErr  error
	SetHits int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetHits++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = value
	return nil
}

// Raw returns the stored value for key without failure injection.
func (m *MemoryKV) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
