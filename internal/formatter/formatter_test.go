package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	th "github.com/desertthunder/popcorn/internal/testing"
)

func testExport() *WatchlistExport {
	return NewWatchlistExport([]models.WatchedMovie{
		{
			ID:             "tt1375666",
			Title:          "Inception",
			Year:           "2010",
			PosterURL:      "https://example.com/inception.jpg",
			CatalogRating:  8.8,
			RuntimeMinutes: 148,
			UserRating:     9,
		},
		{
			ID:             "tt0816692",
			Title:          "Interstellar",
			Year:           "2014",
			CatalogRating:  8.7,
			RuntimeMinutes: 169,
			UserRating:     7,
		},
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Year,IMDb Rating,User Rating,Runtime") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "tt1375666,Inception,2010,8.8,9.0,148") {
			t.Errorf("CSV missing first movie, got: %s", output)
		}
		if !strings.Contains(output, "tt0816692,Interstellar,2014,8.7,7.0,169") {
			t.Errorf("CSV missing second movie, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("with remote posters", func(t *testing.T) {
			data, err := ExportToMarkdown(testExport(), nil)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "# Movies you watched") {
				t.Errorf("Markdown missing title")
			}
			if !strings.Contains(output, "**Movies**: 2") {
				t.Errorf("Markdown missing count, got: %s", output)
			}
			if !strings.Contains(output, "**Average user rating**: 8.0") {
				t.Errorf("Markdown missing user average, got: %s", output)
			}
			if !strings.Contains(output, "### 1. Inception (2010)") {
				t.Errorf("Markdown missing first heading, got: %s", output)
			}
			if !strings.Contains(output, "![Inception](https://example.com/inception.jpg)") {
				t.Errorf("Markdown missing poster image")
			}
			if !strings.Contains(output, "- Runtime: 2h 28m") {
				t.Errorf("Markdown missing runtime, got: %s", output)
			}
			if strings.Contains(output, "![Interstellar]") {
				t.Errorf("Markdown should skip missing poster")
			}
		})

		t.Run("with local posters", func(t *testing.T) {
			data, err := ExportToMarkdown(testExport(), map[string]string{"tt0816692": "posters/tt0816692.jpg"})
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			if !strings.Contains(string(data), "![Interstellar](posters/tt0816692.jpg)") {
				t.Errorf("Markdown missing local poster reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Movies: 2") {
			t.Errorf("Text missing count, got: %s", output)
		}
		if !strings.Contains(output, "1. Inception (2010) imdb 8.8, you 9.0, 2h 28m") {
			t.Errorf("Text missing first movie, got: %s", output)
		}
		if !strings.Contains(output, "Average runtime: 2h 39m") {
			t.Errorf("Text missing runtime average, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Stats  models.WatchlistStats `json:"stats"`
			Movies []models.WatchedMovie `json:"movies"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Stats.Count != 2 || len(decoded.Movies) != 2 {
			t.Errorf("unexpected document %+v", decoded)
		}
		if !strings.Contains(string(data), `"userRating": 9`) {
			t.Errorf("JSON missing persisted key names, got: %s", data)
		}
	})

	t.Run("Empty Watchlist", func(t *testing.T) {
		export := NewWatchlistExport(nil)

		data, err := ExportToJSON(export)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"movies": []`) {
			t.Errorf("expected empty movies array, got: %s", data)
		}

		text, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if !strings.Contains(string(text), "Average runtime: -") {
			t.Errorf("expected zero sentinel, got: %s", text)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tt := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"md", FormatMarkdown},
		{"Markdown", FormatMarkdown},
		{"txt", FormatText},
		{"text", FormatText},
		{"json", FormatJSON},
		{"", FormatJSON},
	}

	for _, tc := range tt {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestFormatRuntime(t *testing.T) {
	tt := map[int]string{0: "-", 45: "45m", 60: "1h 00m", 148: "2h 28m"}
	for in, want := range tt {
		if got := FormatRuntime(in); got != want {
			t.Errorf("FormatRuntime(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out", "list.csv")

		written, err := WriteExport(testExport(), FormatCSV, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertFileExists(t, written)
		if content := th.MustReadFile(t, written); !strings.Contains(content, "Inception") {
			t.Errorf("export file missing content")
		}
	})

	t.Run("WithDefaultPath", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteExport(testExport(), FormatMarkdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "watched.md" {
			t.Errorf("expected watched.md, got %s", written)
		}
		th.AssertFileExists(t, written)
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		if err := WriteManifest(map[string]int{"total": 2}, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}
		if content := th.MustReadFile(t, path); !strings.Contains(content, `"total": 2`) {
			t.Errorf("unexpected manifest %s", content)
		}
	})
}

func TestPosters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("fake-jpeg"))
	}))
	defer server.Close()

	t.Run("DownloadImage", func(t *testing.T) {
		data, err := DownloadImage(context.Background(), server.URL+"/poster.jpg")
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "fake-jpeg" {
			t.Errorf("unexpected body %q", data)
		}
	})

	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), server.URL+"/missing.jpg"); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := DownloadImage(ctx, server.URL+"/poster.jpg"); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("WritePoster", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "posters", "tt1375666.jpg")
		written, err := WritePoster(context.Background(), server.URL+"/poster.jpg", dest)
		if err != nil {
			t.Fatalf("WritePoster failed: %v", err)
		}
		if th.MustReadFile(t, written) != "fake-jpeg" {
			t.Errorf("poster file has wrong content")
		}
	})

	t.Run("PosterFilename", func(t *testing.T) {
		tt := []struct{ url, want string }{
			{"https://m.media-amazon.com/images/M/abc._V1_SX300.jpg", "tt1.jpg"},
			{"https://example.com/p.PNG?x=1", "tt1.png"},
			{"https://example.com/poster", "tt1.jpg"},
			{"", "tt1.jpg"},
		}
		for _, tc := range tt {
			got, err := PosterFilename("tt1", tc.url)
			if err != nil || got != tc.want {
				t.Errorf("PosterFilename(%q) = %q, %v, want %q", tc.url, got, err, tc.want)
			}
		}
	})

	t.Run("PosterFilename rejects unsafe ids", func(t *testing.T) {
		for _, id := range []string{"", ".", "..", "../evil", "a/b", `a\b`, "/etc/passwd", "tt1..tt2"} {
			if got, err := PosterFilename(id, "https://example.com/p.jpg"); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("PosterFilename(%q) = %q, %v, want ErrInvalidArgument", id, got, err)
			}
		}
	})

	t.Run("Oversized", func(t *testing.T) {
		prev := maxImageBytes
		maxImageBytes = 4
		defer func() { maxImageBytes = prev }()

		if _, err := DownloadImage(context.Background(), server.URL+"/poster.jpg"); !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed for oversized body, got %v", err)
		}
	})

	t.Run("AtLimit", func(t *testing.T) {
		prev := maxImageBytes
		maxImageBytes = int64(len("fake-jpeg"))
		defer func() { maxImageBytes = prev }()

		data, err := DownloadImage(context.Background(), server.URL+"/poster.jpg")
		if err != nil || string(data) != "fake-jpeg" {
			t.Errorf("expected full body at the limit, got %q, %v", data, err)
		}
	})
}
