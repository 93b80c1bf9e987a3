package shared

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestDisplayMessage(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "canceled", err: fmt.Errorf("request failed: %w", context.Canceled), want: ""},
		{name: "not found", err: fmt.Errorf("%w: Movie not found!", ErrMovieNotFound), want: MsgMovieNotFound},
		{name: "fetch failed", err: fmt.Errorf("%w: status 500", ErrFetchFailed), want: MsgFetchFailed},
		{name: "timeout", err: fmt.Errorf("detail: %w", context.DeadlineExceeded), want: MsgDetailTimeout},
		{name: "unknown", err: errors.New("boom"), want: MsgFetchFailed},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayMessage(tt.err); got != tt.want {
				t.Errorf("DisplayMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "component", "test").Info("hello")

		if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "component=test") {
			t.Errorf("unexpected log output: %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "popcorn.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("written")

		if content := readFile(t, path); !strings.Contains(content, "written") {
			t.Errorf("expected log file to contain entry, got %q", content)
		}
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		if got := ParseLogLevel("DEBUG"); got != log.DebugLevel {
			t.Errorf("ParseLogLevel(DEBUG) = %v", got)
		}
		if got := ParseLogLevel("nonsense"); got != log.InfoLevel {
			t.Errorf("ParseLogLevel(nonsense) = %v, want info", got)
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == "" || a == b {
			t.Errorf("expected distinct non-empty ids, got %q and %q", a, b)
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"count": 2}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(compact) != `{"count":2}` {
		t.Errorf("compact = %s", compact)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(pretty) != "{\n  \"count\": 2\n}" {
		t.Errorf("pretty = %s", pretty)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
