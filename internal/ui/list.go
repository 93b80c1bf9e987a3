package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/popcorn/internal/formatter"
	"github.com/desertthunder/popcorn/internal/models"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = watchedItem{}
)

// movieItem wraps [models.MovieSummary] to implement [list.Item].
type movieItem struct {
	movie   models.MovieSummary
	watched bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	desc := fmt.Sprintf("🗓 %s", i.movie.Year)
	if i.watched {
		desc = fmt.Sprintf("%s • on your list", desc)
	}
	return desc
}

// watchedItem wraps [models.WatchedMovie] to implement [list.Item].
type watchedItem struct {
	movie models.WatchedMovie
}

func (i watchedItem) FilterValue() string { return i.movie.Title }
func (i watchedItem) Title() string       { return i.movie.Title }
func (i watchedItem) Description() string {
	return fmt.Sprintf("⭐ %s • 🌟 %s • ⏳ %s",
		formatter.FormatRating(i.movie.CatalogRating),
		formatter.FormatRating(i.movie.UserRating),
		formatter.FormatRuntime(i.movie.RuntimeMinutes),
	)
}

func movieItems(movies []models.MovieSummary, watched func(string) bool) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m, watched: watched != nil && watched(m.ID)}
	}
	return items
}

func watchedItems(movies []models.WatchedMovie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = watchedItem{movie: m}
	}
	return items
}
