package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureMissThenHit(t *testing.T) {
	c := &Cache{Root: t.TempDir()}

	calls := 0
	produce := func(scratch string) (string, error) {
		calls++
		tree := filepath.Join(scratch, "duckc-0.4.1")
		if err := os.MkdirAll(tree, 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(tree, "main.duck"), []byte("quack"), 0o644); err != nil {
			return "", err
		}
		return tree, nil
	}

	path, hit, err := c.Ensure(KindSource, "v0.4.1", produce)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if hit {
		t.Error("first Ensure reported a hit")
	}
	if path != c.Path(KindSource, "v0.4.1") {
		t.Errorf("path = %q, want %q", path, c.Path(KindSource, "v0.4.1"))
	}

	data, err := os.ReadFile(filepath.Join(path, "main.duck"))
	if err != nil {
		t.Fatalf("read cached file: %v", err)
	}
	if string(data) != "quack" {
		t.Errorf("cached content = %q", data)
	}

	// The second call must come from the cache without producing again.
	path2, hit, err := c.Ensure(KindSource, "v0.4.1", produce)
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if !hit {
		t.Error("second Ensure reported a miss")
	}
	if path2 != path {
		t.Errorf("second path = %q, want %q", path2, path)
	}
	if calls != 1 {
		t.Errorf("producer ran %d times, want 1", calls)
	}
}

func TestEnsureKindsAreDisjoint(t *testing.T) {
	c := &Cache{Root: t.TempDir()}

	produce := func(scratch string) (string, error) {
		tree := filepath.Join(scratch, "tree")
		return tree, os.MkdirAll(tree, 0o755)
	}

	if _, _, err := c.Ensure(KindSource, "1.25.0", produce); err != nil {
		t.Fatalf("Ensure source: %v", err)
	}

	_, hit, err := c.Ensure(KindRuntime, "1.25.0", produce)
	if err != nil {
		t.Fatalf("Ensure runtime: %v", err)
	}
	if hit {
		t.Error("runtime entry hit on a key only cached under source")
	}
}

func TestEnsureFailedProducerLeavesNoEntry(t *testing.T) {
	c := &Cache{Root: t.TempDir()}

	boom := errors.New("download failed")
	_, _, err := c.Ensure(KindRuntime, "1.25.0", func(scratch string) (string, error) {
		// Partial work in scratch must not leak into the cache.
		if err := os.WriteFile(filepath.Join(scratch, "partial"), []byte("x"), 0o644); err != nil {
			return "", err
		}
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want producer error", err)
	}

	if _, statErr := os.Stat(c.Path(KindRuntime, "1.25.0")); !os.IsNotExist(statErr) {
		t.Error("failed producer left a cache entry behind")
	}

	entries, readErr := os.ReadDir(c.Root)
	if readErr != nil {
		t.Fatalf("read cache root: %v", readErr)
	}
	for _, entry := range entries {
		if entry.Name() != string(KindRuntime) && entry.Name() != string(KindSource) {
			t.Errorf("scratch residue left in cache root: %s", entry.Name())
		}
	}
}

func TestEnsureScratchCleanedAfterSuccess(t *testing.T) {
	c := &Cache{Root: t.TempDir()}

	_, _, err := c.Ensure(KindSource, "v1.0.0", func(scratch string) (string, error) {
		tree := filepath.Join(scratch, "tree")
		return tree, os.MkdirAll(tree, 0o755)
	})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	entries, err := os.ReadDir(c.Root)
	if err != nil {
		t.Fatalf("read cache root: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != string(KindSource) {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("cache root entries = %v, want only %q", names, string(KindSource))
	}
}

func TestEnsureProducerResultMissing(t *testing.T) {
	c := &Cache{Root: t.TempDir()}

	_, _, err := c.Ensure(KindSource, "v1.0.0", func(scratch string) (string, error) {
		return filepath.Join(scratch, "never-created"), nil
	})
	if err == nil {
		t.Fatal("expected error for missing producer result")
	}
}
