// package formatter provides functions to export the watched list to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ParseFormat resolves a user-supplied format name. "markdown" and "text" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json", "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q (use csv, md, txt or json)", shared.ErrInvalidFlag, s)
	}
}

// WatchlistExport is the document written by the JSON exporter.
type WatchlistExport struct {
	ExportedAt time.Time             `json:"exportedAt"`
	Stats      models.WatchlistStats `json:"stats"`
	Movies     []models.WatchedMovie `json:"movies"`
}

// NewWatchlistExport bundles movies with their aggregates.
func NewWatchlistExport(movies []models.WatchedMovie) *WatchlistExport {
	if movies == nil {
		movies = []models.WatchedMovie{}
	}
	return &WatchlistExport{
		ExportedAt: time.Now().UTC(),
		Stats:      models.ComputeStats(movies),
		Movies:     movies,
	}
}

// FormatRuntime renders minutes as "2h 28m". Zero renders as "-".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// FormatRating renders a 0-10 rating with one decimal place.
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// ExportToCSV converts the watched list to CSV format with columns: ID, Title, Year, IMDb Rating, User Rating, Runtime
func ExportToCSV(export *WatchlistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "IMDb Rating", "User Rating", "Runtime"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range export.Movies {
		record := []string{
			m.ID,
			m.Title,
			m.Year,
			FormatRating(m.CatalogRating),
			FormatRating(m.UserRating),
			strconv.Itoa(m.RuntimeMinutes),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts the watched list to Markdown with poster images inline.
//
// posters maps movie IDs to local image paths; movies without an entry link the remote poster.
func ExportToMarkdown(export *WatchlistExport, posters map[string]string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Movies you watched\n\n")
	buf.WriteString(summaryLine(export.Stats, "**%s**: %s\n"))
	buf.WriteString("\n## Movies\n\n")

	for i, m := range export.Movies {
		fmt.Fprintf(&buf, "### %d. %s", i+1, m.Title)
		if m.Year != "" {
			fmt.Fprintf(&buf, " (%s)", m.Year)
		}
		buf.WriteString("\n\n")

		poster := posters[m.ID]
		if poster == "" {
			poster = m.PosterURL
		}
		if poster != "" {
			fmt.Fprintf(&buf, "![%s](%s)\n\n", m.Title, poster)
		}

		fmt.Fprintf(&buf, "- IMDb rating: %s\n", FormatRating(m.CatalogRating))
		fmt.Fprintf(&buf, "- Your rating: %s\n", FormatRating(m.UserRating))
		fmt.Fprintf(&buf, "- Runtime: %s\n\n", FormatRuntime(m.RuntimeMinutes))
	}

	return buf.Bytes(), nil
}

// ExportToText converts the watched list to plain text format
func ExportToText(export *WatchlistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(summaryLine(export.Stats, "%s: %s\n"))
	buf.WriteString("\n")

	for i, m := range export.Movies {
		fmt.Fprintf(&buf, "%d. %s (%s) imdb %s, you %s, %s\n",
			i+1, m.Title, m.Year, FormatRating(m.CatalogRating), FormatRating(m.UserRating), FormatRuntime(m.RuntimeMinutes))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts the watched list to an indented JSON document.
func ExportToJSON(export *WatchlistExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

func summaryLine(stats models.WatchlistStats, layout string) string {
	var b strings.Builder
	fmt.Fprintf(&b, layout, "Movies", strconv.Itoa(stats.Count))
	fmt.Fprintf(&b, layout, "Average IMDb rating", FormatRating(stats.AvgCatalogRating))
	fmt.Fprintf(&b, layout, "Average user rating", FormatRating(stats.AvgUserRating))
	fmt.Fprintf(&b, layout, "Average runtime", FormatRuntime(int(stats.AvgRuntime+0.5)))
	return b.String()
}

// Export renders the watched list in the given format.
func Export(export *WatchlistExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export, nil)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders the watched list and writes it to path.
//
// Defaults to watched.{ext} in the working directory.
func WriteExport(export *WatchlistExport, format Format, path string) (string, error) {
	if path == "" {
		path = "watched." + format.Extension()
	}

	data, err := Export(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

var imageClient = &http.Client{Timeout: 30 * time.Second}

// maxImageBytes caps a single poster download.
var maxImageBytes int64 = 10 << 20

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrMissingArgument)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := imageClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(imageData)) > maxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", shared.ErrFetchFailed, maxImageBytes)
	}

	return imageData, nil
}

// PosterFilename returns "{id}{ext}" where ext comes from the poster URL, defaulting to .jpg.
//
// Ids that could escape the output directory are rejected with [shared.ErrInvalidArgument].
func PosterFilename(id, posterURL string) (string, error) {
	if id == "" || id == "." || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: unsafe poster id %q", shared.ErrInvalidArgument, id)
	}

	ext := strings.ToLower(path.Ext(strings.SplitN(posterURL, "?", 2)[0]))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		ext = ".jpg"
	}
	return id + ext, nil
}

// WritePoster downloads the image at posterURL and saves it to dest, creating parent directories.
func WritePoster(ctx context.Context, posterURL, dest string) (string, error) {
	data, err := DownloadImage(ctx, posterURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save poster: %w", err)
	}

	return dest, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
