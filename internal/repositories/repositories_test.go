package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/popcorn/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestKVRepository(t *testing.T) {
	t.Run("Get Missing Key", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewKVRepository(db)
		value, found, err := repo.Get("watched")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found || value != "" {
			t.Errorf("expected missing key, got found=%v value=%q", found, value)
		}
	})

	t.Run("Set And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewKVRepository(db)
		if err := repo.Set("watched", `[{"imdbID":"tt1"}]`); err != nil {
			t.Fatalf("failed to set: %v", err)
		}

		value, found, err := repo.Get("watched")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if !found || value != `[{"imdbID":"tt1"}]` {
			t.Errorf("unexpected value: found=%v value=%q", found, value)
		}
	})

	t.Run("Set Overwrites", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewKVRepository(db)
		if err := repo.Set("watched", "first"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		before, err := repo.UpdatedAt("watched")
		if err != nil {
			t.Fatalf("failed to read updated_at: %v", err)
		}

		time.Sleep(5 * time.Millisecond)
		if err := repo.Set("watched", "second"); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}

		value, _, _ := repo.Get("watched")
		if value != "second" {
			t.Errorf("expected overwritten value, got %q", value)
		}

		after, err := repo.UpdatedAt("watched")
		if err != nil {
			t.Fatalf("failed to read updated_at: %v", err)
		}
		if !after.After(before) {
			t.Errorf("expected updated_at to advance: before=%v after=%v", before, after)
		}

		keys, err := repo.Keys()
		if err != nil {
			t.Fatalf("failed to list keys: %v", err)
		}
		if len(keys) != 1 {
			t.Errorf("expected one key after overwrite, got %v", keys)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewKVRepository(db)
		if err := repo.Set("a", "1"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if err := repo.Delete("a"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, found, _ := repo.Get("a"); found {
			t.Error("expected key to be gone")
		}
		if err := repo.Delete("a"); err != nil {
			t.Errorf("deleting a missing key should succeed, got %v", err)
		}
	})

	t.Run("Keys Sorted", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewKVRepository(db)
		for _, k := range []string{"b", "a", "c"} {
			if err := repo.Set(k, k); err != nil {
				t.Fatalf("failed to set %s: %v", k, err)
			}
		}

		keys, err := repo.Keys()
		if err != nil {
			t.Fatalf("failed to list keys: %v", err)
		}
		if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
			t.Errorf("unexpected keys: %v", keys)
		}
	})

	t.Run("Empty Key", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewKVRepository(db)
		if err := repo.Set(" ", "v"); err == nil {
			t.Error("expected error for empty key on Set")
		}
		if _, _, err := repo.Get(""); err == nil {
			t.Error("expected error for empty key on Get")
		}
		if err := repo.Delete(""); err == nil {
			t.Error("expected error for empty key on Delete")
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		repo := NewKVRepository(db)
		if err := repo.Set("k", "v"); err == nil {
			t.Error("expected error writing to closed database")
		}
		if _, _, err := repo.Get("k"); err == nil {
			t.Error("expected error reading from closed database")
		}
		if _, err := repo.Keys(); err == nil {
			t.Error("expected error listing keys from closed database")
		}
	})
}
