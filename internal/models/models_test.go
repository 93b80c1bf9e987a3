package models

import (
	"math"
	"testing"
)

func TestParseRuntime(t *testing.T) {
	tc := []struct {
		in   string
		want int
	}{
		{"148 min", 148},
		{"90 min", 90},
		{"7", 7},
		{"N/A", 0},
		{"", 0},
		{"unknown", 0},
		{"-5 min", 0},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseRuntime(tt.in); got != tt.want {
				t.Errorf("ParseRuntime(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRating(t *testing.T) {
	tc := []struct {
		in   string
		want float64
	}{
		{"8.8", 8.8},
		{"10", 10},
		{"11", 10},
		{"N/A", 0},
		{"n/a", 0},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{"-Inf", 0},
		{"+Inf", 10},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseRating(tt.in); got != tt.want {
				t.Errorf("ParseRating(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	t.Run("empty collection yields zeros", func(t *testing.T) {
		stats := ComputeStats(nil)
		if stats != (WatchlistStats{}) {
			t.Errorf("expected zero stats, got %+v", stats)
		}
	})

	t.Run("averages", func(t *testing.T) {
		stats := ComputeStats([]WatchedMovie{
			{ID: "tt1", CatalogRating: 8, UserRating: 10, RuntimeMinutes: 120},
			{ID: "tt2", CatalogRating: 6, UserRating: 7, RuntimeMinutes: 90},
		})

		if stats.Count != 2 {
			t.Errorf("Count = %d, want 2", stats.Count)
		}
		if stats.AvgCatalogRating != 7 {
			t.Errorf("AvgCatalogRating = %v, want 7", stats.AvgCatalogRating)
		}
		if stats.AvgUserRating != 8.5 {
			t.Errorf("AvgUserRating = %v, want 8.5", stats.AvgUserRating)
		}
		if stats.AvgRuntime != 105 {
			t.Errorf("AvgRuntime = %v, want 105", stats.AvgRuntime)
		}
	})
}

func TestWatchedMovie(t *testing.T) {
	detail := MovieDetail{
		ID:             "tt1375666",
		Title:          "Inception",
		Year:           "2010",
		PosterURL:      "https://example.com/inception.jpg",
		RuntimeMinutes: 148,
		CatalogRating:  8.8,
		Plot:           "A thief who steals corporate secrets...",
	}

	t.Run("NewWatchedMovie copies catalog fields", func(t *testing.T) {
		m := NewWatchedMovie(detail, 8)
		if m.ID != detail.ID || m.Title != detail.Title || m.RuntimeMinutes != 148 || m.CatalogRating != 8.8 {
			t.Errorf("unexpected watched movie: %+v", m)
		}
		if m.UserRating != 8 {
			t.Errorf("UserRating = %v, want 8", m.UserRating)
		}
		if err := m.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("Validate rejects bad ratings and ids", func(t *testing.T) {
		for _, m := range []WatchedMovie{
			NewWatchedMovie(detail, 0),
			NewWatchedMovie(detail, 10.5),
			NewWatchedMovie(detail, -1),
			NewWatchedMovie(detail, math.NaN()),
			NewWatchedMovie(detail, math.Inf(1)),
			NewWatchedMovie(detail, math.Inf(-1)),
			{ID: "tt1", UserRating: 5, CatalogRating: math.NaN()},
			{ID: " ", UserRating: 5},
		} {
			if err := m.Validate(); err == nil {
				t.Errorf("expected error for %+v", m)
			}
		}
	})
}
