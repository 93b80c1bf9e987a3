// Package watchlist owns the user's watched-movie collection and its persistence.
//
// A [Store] is constructed once, loaded from a [KeyValueStore], and passed to whatever needs it.
// Add and Remove are the only mutations; each one is followed by a full write of the collection.
package watchlist

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
)

// DefaultKey is the storage key holding the serialized collection.
const DefaultKey = "watched"

// KeyValueStore is the durable string store the collection is written to.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Store is the in-memory source of truth for watched movies.
//
// Entries are unique by ID and kept in insertion order.
type Store struct {
	mu     sync.RWMutex
	kv     KeyValueStore
	key    string
	movies []models.WatchedMovie
	logger *log.Logger
}

// New creates an empty store bound to kv under key. Call [Store.Load] to read persisted state.
func New(kv KeyValueStore, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		kv:     kv,
		key:    key,
		logger: shared.WithLogger(logger, "store", "watchlist"),
	}
}

// Open creates a store and loads it.
func Open(kv KeyValueStore, key string, logger *log.Logger) *Store {
	s := New(kv, key, logger)
	s.Load()
	return s
}

// Load replaces the in-memory collection with the persisted one.
//
// Missing, unreadable or malformed data yields an empty collection; the problem is logged and returned
// for callers that want to report it, but the store is always usable afterwards.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies = nil

	raw, found, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Error("failed to read watchlist, starting empty", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrMalformedStore, err)
	}
	if !found || strings.TrimSpace(raw) == "" {
		return nil
	}

	movies, err := decode(raw)
	if err != nil {
		s.logger.Warn("malformed watchlist data, starting empty", "error", err)
		return err
	}

	s.movies = movies
	s.logger.Debug("watchlist loaded", "count", len(movies))
	return nil
}

// decode parses the serialized collection, dropping invalid entries and duplicate ids (first wins).
func decode(raw string) ([]models.WatchedMovie, error) {
	var stored []models.WatchedMovie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedStore, err)
	}

	seen := make(map[string]bool, len(stored))
	movies := make([]models.WatchedMovie, 0, len(stored))
	for _, m := range stored {
		if strings.TrimSpace(m.ID) == "" || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		movies = append(movies, m)
	}
	return movies, nil
}

// Persist writes the full collection.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	movies := s.movies
	if movies == nil {
		movies = []models.WatchedMovie{}
	}

	data, err := json.Marshal(movies)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersistFailed, err)
	}

	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.logger.Error("failed to persist watchlist", "error", err, "count", len(movies))
		return fmt.Errorf("%w: %v", shared.ErrPersistFailed, err)
	}

	return nil
}

// Add appends movie unless its ID is already present.
//
// Returns added=false without error for a duplicate. The in-memory collection keeps the new entry
// even when persisting fails; the persistence error is returned.
func (s *Store) Add(movie models.WatchedMovie) (bool, error) {
	if err := movie.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(movie.ID) >= 0 {
		s.logger.Debug("movie already watched", "id", movie.ID)
		return false, nil
	}

	s.movies = append(s.movies, movie)
	s.logger.Info("added to watchlist", "id", movie.ID, "title", movie.Title, "rating", movie.UserRating)
	return true, s.persistLocked()
}

// Remove deletes the entry with id. Removing an absent id is a no-op that reports removed=false.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false, nil
	}

	s.movies = slices.Delete(s.movies, i, i+1)
	s.logger.Info("removed from watchlist", "id", id)
	return true, s.persistLocked()
}

// List returns a copy of the collection in display order.
func (s *Store) List() []models.WatchedMovie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.movies)
}

// Get returns the entry with id.
func (s *Store) Get(id string) (models.WatchedMovie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.movies[i], true
	}
	return models.WatchedMovie{}, false
}

// Contains reports whether id is in the collection.
func (s *Store) Contains(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Len returns the number of watched movies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// Stats returns the aggregates over the collection. An empty collection yields zero values.
func (s *Store) Stats() models.WatchlistStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ComputeStats(s.movies)
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.movies, func(m models.WatchedMovie) bool { return m.ID == id })
}
